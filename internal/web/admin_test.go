package web

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krenke/internal/model"
)

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		env.leads.items = append(env.leads.items, model.Lead{ID: string(rune('a' + i)), Name: "Lead", CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	doc := parse(t, env.get("/pgadmin", env.login(restrictedEmail)))
	assert.Equal(t, "3", doc.Find("#count-products").Text())
	assert.Equal(t, "0", doc.Find("#count-posts").Text())
	assert.Equal(t, "7", doc.Find("#count-leads").Text())
	assert.Equal(t, dashboardLeads, doc.Find("#latest-leads tbody tr").Length())
}

func TestAdminProductCRUD(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(restrictedEmail)

	rec := env.post("/pgadmin/produtos", url.Values{"name": {"Gangorra Tripla"}, "category": {"Brinquedos Avulsos"}, "images": {"/assets/a.jpg\n\n/assets/b.jpg"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	p, err := env.products.Get(context.Background(), "gangorra-tripla")
	require.NoError(t, err)
	assert.Equal(t, []string{"/assets/a.jpg", "/assets/b.jpg"}, p.Images)

	rec = env.post("/pgadmin/produtos", url.Values{"name": {"Gangorra Tripla"}}, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Já existe um produto com este ID.", parse(t, rec).Find("#form-error").Text())

	rec = env.post("/pgadmin/produtos", url.Values{"name": {""}}, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.get("/pgadmin/produtos/gangorra-tripla/editar", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	action, _ := parse(t, rec).Find("#product-form").Attr("action")
	assert.Equal(t, "/pgadmin/produtos/gangorra-tripla", action)

	rec = env.post("/pgadmin/produtos/gangorra-tripla", url.Values{"id": {"gangorra-3"}, "name": {"Gangorra 3 Lugares"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	_, err = env.products.Get(context.Background(), "gangorra-tripla")
	assert.Error(t, err)
	p, err = env.products.Get(context.Background(), "gangorra-3")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCategory, p.Category)

	rec = env.post("/pgadmin/produtos/gangorra-3", url.Values{"id": {"balanco-duplo"}, "name": {"X"}}, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.post("/pgadmin/produtos/nao-existe", url.Values{"name": {"X"}}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, env.get("/pgadmin/produtos/nao-existe/editar", cookie).Code)

	rec = env.post("/pgadmin/produtos/gangorra-3/excluir", nil, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/pgadmin/produtos?ok=excluido", rec.Header().Get("Location"))
	n, _ := env.products.Count(context.Background())
	assert.Equal(t, 3, n)

	doc := parse(t, env.get("/pgadmin/produtos?ok=excluido&q=castelo", cookie))
	assert.Equal(t, "Registro excluído.", doc.Find(".flash").Text())
	assert.Equal(t, 1, doc.Find("#admin-products tbody tr").Length())
}

func TestAdminProductPaste(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(restrictedEmail)

	html := `<h1 class="product_title">Gira Gira</h1><div class="product-next">Brinquedo giratório</div>`
	rec := env.post("/pgadmin/produtos/colar", url.Values{"html": {html}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)
	name, _ := doc.Find("input#name").Attr("value")
	id, _ := doc.Find("input#id").Attr("value")
	assert.Equal(t, "Gira Gira", name)
	assert.Equal(t, "gira-gira", id)
	assert.Equal(t, "Brinquedo giratório", doc.Find("textarea#description").Text())

	rec = env.post("/pgadmin/produtos/colar", url.Values{"html": {"<p>nada</p>"}}, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAdminProductImages(t *testing.T) {
	assets := fstest.MapFS{
		"balanço duplo.jpg":   {Data: []byte("x")},
		"balanço duplo 2.jpg": {Data: []byte("x")},
		"outro.png":           {Data: []byte("x")},
	}
	env := newTestEnv(t, func(d *Deps) { d.AssetsFS = assets })
	cookie := env.login(restrictedEmail)

	rec := env.post("/pgadmin/produtos/imagens", nil, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/pgadmin/produtos?atualizados=1", rec.Header().Get("Location"))

	p, err := env.products.Get(context.Background(), "balanco-duplo")
	require.NoError(t, err)
	assert.Equal(t, "/assets/balanço duplo.jpg", p.Image)
	assert.Equal(t, []string{"/assets/balanço duplo.jpg", "/assets/balanço duplo 2.jpg"}, p.Images)

	castelo, _ := env.products.Get(context.Background(), "playground-castelo")
	assert.Equal(t, "/assets/castelo.jpg", castelo.Image)

	doc := parse(t, env.get("/pgadmin/produtos?atualizados=1", cookie))
	assert.Equal(t, "1 produtos com imagens atualizadas.", doc.Find(".flash").Text())
}

func TestAdminBlog(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(restrictedEmail)

	form := url.Values{
		"title":     {"Como Escolher um Playground Seguro"},
		"content":   {"<p>Texto sobre segurança.</p>"},
		"published": {"1"},
	}
	rec := env.post("/pgadmin/blog", form, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, env.posts.items, 1)
	post := env.posts.items[0]
	assert.Equal(t, "como-escolher-um-playground-seguro", post.Slug)
	assert.Equal(t, "Texto sobre segurança.", post.Excerpt)
	assert.Equal(t, restrictedEmail, post.Author)
	assert.True(t, post.Published)

	assert.Equal(t, http.StatusConflict, env.post("/pgadmin/blog", form, cookie).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, env.post("/pgadmin/blog", url.Values{"title": {""}}, cookie).Code)

	assert.Contains(t, env.get("/blog").Body.String(), "Como Escolher um Playground Seguro")
	assert.Equal(t, http.StatusOK, env.get("/blog/"+post.Slug).Code)

	rec = env.post("/pgadmin/blog/"+post.ID+"/publicar", nil, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, http.StatusNotFound, env.get("/blog/"+post.Slug).Code)

	rec = env.post("/pgadmin/blog/"+post.ID, url.Values{"title": {"Novo Título"}, "slug": {"Endereço Novo"}, "excerpt": {"Resumo manual"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	updated, err := env.posts.Get(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "endereco-novo", updated.Slug)
	assert.Equal(t, "Resumo manual", updated.Excerpt)
	assert.Equal(t, post.CreatedAt, updated.CreatedAt)

	doc := parse(t, env.get("/pgadmin/blog", cookie))
	assert.Equal(t, 1, doc.Find("#admin-posts tbody tr").Length())
	assert.Contains(t, doc.Find("#admin-posts").Text(), "Rascunho")

	require.Equal(t, http.StatusSeeOther, env.post("/pgadmin/blog/"+post.ID+"/excluir", nil, cookie).Code)
	assert.Empty(t, env.posts.items)
	assert.Equal(t, http.StatusNotFound, env.get("/pgadmin/blog/"+post.ID+"/editar", cookie).Code)
}

func TestAdminLeads(t *testing.T) {
	env := newTestEnv(t)
	env.leads.items = []model.Lead{
		{ID: "l1", Name: "Escola A", Email: "a@escola.com", Phone: "4799999999", Products: []string{"Balanço Duplo"}, CreatedAt: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "l2", Name: "Prefeitura B", Email: "b@pref.gov.br", Phone: "4788888888", Products: []string{"Playground Castelo", "Banco de Praça"}, Message: "Praça central", CreatedAt: time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)},
	}
	cookie := env.login(restrictedEmail)

	doc := parse(t, env.get("/pgadmin/orcamentos", cookie))
	rows := doc.Find("#admin-leads tbody tr")
	require.Equal(t, 2, rows.Length())
	assert.Contains(t, rows.First().Text(), "Prefeitura B")
	assert.Contains(t, rows.First().Text(), "Playground Castelo, Banco de Praça")

	rec := env.get("/pgadmin/orcamentos.csv", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, leadCSVHeader, records[0])
	assert.Equal(t, []string{"01/02/2025 09:00", "Prefeitura B", "b@pref.gov.br", "4788888888", "Playground Castelo; Banco de Praça", "Praça central"}, records[1])

	rec = env.post("/pgadmin/orcamentos/l1/excluir", nil, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Len(t, env.leads.items, 1)
}

func TestAdminScripts(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(superEmail)

	rec := env.post("/pgadmin/scripts", url.Values{"name": {"GTM"}, "content": {"<script>gtm()</script>"}, "placement": {"head"}, "is_active": {"1"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, env.scripts.items, 1)
	sc := env.scripts.items[0]
	assert.True(t, sc.IsActive)

	rec = env.post("/pgadmin/scripts", url.Values{"name": {"X"}, "content": {"y"}, "placement": {"footer"}}, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Posição inválida.", parse(t, rec).Find("#form-error").Text())

	assert.Contains(t, env.get("/").Body.String(), "dynamic-tag-"+sc.ID)

	rec = env.post("/pgadmin/scripts/"+sc.ID+"/ativar", url.Values{"active": {"false"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, env.scripts.items[0].IsActive)
	assert.NotContains(t, env.get("/").Body.String(), "dynamic-tag-"+sc.ID)

	assert.Equal(t, http.StatusNotFound, env.post("/pgadmin/scripts/nao-existe/ativar", url.Values{"active": {"true"}}, cookie).Code)

	require.Equal(t, http.StatusSeeOther, env.post("/pgadmin/scripts/"+sc.ID+"/excluir", nil, cookie).Code)
	assert.Empty(t, env.scripts.items)
}

func TestAdminUsers(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(superEmail)

	rec := env.post("/pgadmin/usuarios", url.Values{"email": {"novo@krenke.com.br"}, "password": {"123456"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Len(t, env.users.items, 3)

	rec = env.post("/pgadmin/usuarios", url.Values{"email": {"novo@krenke.com.br"}, "password": {"123456"}}, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Este e-mail já está cadastrado.", parse(t, rec).Find("#form-error").Text())

	me, err := env.users.GetByEmail(context.Background(), superEmail)
	require.NoError(t, err)
	rec = env.post("/pgadmin/usuarios/"+me.ID+"/excluir", nil, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	other, err := env.users.GetByEmail(context.Background(), "novo@krenke.com.br")
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, env.post("/pgadmin/usuarios/"+other.ID+"/excluir", nil, cookie).Code)
	assert.Len(t, env.users.items, 2)

	doc := parse(t, env.get("/pgadmin/usuarios", cookie))
	assert.Contains(t, doc.Find("#admin-users").Text(), "Super Admin")
	assert.Contains(t, doc.Find("#admin-users").Text(), "Acesso Restrito")
}
