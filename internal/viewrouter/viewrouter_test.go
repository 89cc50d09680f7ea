package viewrouter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/club-portal/internal/models"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func userWithRole(role string) *models.User {
	return &models.User{ID: "7", Role: role}
}

func TestResolve_RoleAccess(t *testing.T) {
	cases := []struct {
		name           string
		user           *models.User
		requested      Page
		wantPage       Page
		wantRestricted bool
		wantHeading    string
		wantReason     string
	}{
		{
			name:      "anonymous home",
			requested: PageHome,
			wantPage:  PageHome,
		},
		{
			name:      "anonymous on a protected page bounces home",
			requested: PagePerfil,
			wantPage:  PageHome,
		},
		{
			name:           "anonymous tienda stays with a restricted screen",
			requested:      PageTienda,
			wantPage:       PageTienda,
			wantRestricted: true,
			wantHeading:    HeadingRestricted,
			wantReason:     "Por favor inicia sesión para acceder a la tienda",
		},
		{
			name:      "public user opens perfil",
			user:      userWithRole(models.RolePublic),
			requested: PagePerfil,
			wantPage:  PagePerfil,
		},
		{
			name:           "public user cannot see mis-atletas",
			user:           userWithRole(models.RolePublic),
			requested:      PageMisAtletas,
			wantPage:       PageMisAtletas,
			wantRestricted: true,
			wantHeading:    HeadingRestricted,
			wantReason:     "Solo los apoderados pueden acceder a esta sección",
		},
		{
			name:      "apoderado opens mis-pagos",
			user:      userWithRole(models.RoleApoderado),
			requested: PageMisPagos,
			wantPage:  PageMisPagos,
		},
		{
			name:      "admin opens horarios",
			user:      userWithRole(models.RoleAdmin),
			requested: PageHorarios,
			wantPage:  PageHorarios,
		},
		{
			name:           "entrenador cannot see horarios",
			user:           userWithRole(models.RoleEntrenador),
			requested:      PageHorarios,
			wantPage:       PageHorarios,
			wantRestricted: true,
			wantHeading:    HeadingRestricted,
		},
		{
			name:      "public user opens matricula",
			user:      userWithRole(models.RolePublic),
			requested: PageMatricula,
			wantPage:  PageMatricula,
		},
		{
			name:           "apoderado cannot re-enroll through matricula",
			user:           userWithRole(models.RoleApoderado),
			requested:      PageMatricula,
			wantPage:       PageMatricula,
			wantRestricted: true,
			wantHeading:    HeadingRestricted,
			wantReason:     "Esta opcion esta disponible para usuarios publicos. Si eres apoderado, matricula desde tus atletas.",
		},
		{
			name:           "apoderado cannot open admin",
			user:           userWithRole(models.RoleApoderado),
			requested:      PageAdmin,
			wantPage:       PageAdmin,
			wantRestricted: true,
			wantHeading:    HeadingDenied,
			wantReason:     "Solo los administradores pueden acceder a este panel",
		},
		{
			name:      "admin opens admin",
			user:      userWithRole(models.RoleAdmin),
			requested: PageAdmin,
			wantPage:  PageAdmin,
		},
		{
			name:      "unknown page falls back to home",
			user:      userWithRole(models.RolePublic),
			requested: Page("no-existe"),
			wantPage:  PageHome,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := Resolve(tc.user, false, tc.requested, mustURL(t, "http://localhost/"))

			assert.Equal(t, tc.wantPage, view.Page)
			assert.Equal(t, tc.wantRestricted, view.Restricted)
			assert.True(t, view.Chrome)
			if tc.wantHeading != "" {
				assert.Equal(t, tc.wantHeading, view.Heading)
			}
			if tc.wantReason != "" {
				assert.Equal(t, tc.wantReason, view.Reason)
			}
		})
	}
}

func TestResolve_TiendaVariant(t *testing.T) {
	publica := Resolve(userWithRole(models.RolePublic), false, PageTienda, mustURL(t, "http://localhost/"))
	assert.Equal(t, TiendaVariantPublica, publica.TiendaVariant)

	apoderado := Resolve(userWithRole(models.RoleApoderado), false, PageTienda, mustURL(t, "http://localhost/"))
	assert.Equal(t, TiendaVariantApoderado, apoderado.TiendaVariant)

	admin := Resolve(userWithRole(models.RoleAdmin), false, PageTienda, mustURL(t, "http://localhost/"))
	assert.Equal(t, TiendaVariantApoderado, admin.TiendaVariant)
}

func TestResolve_BlockedPinsToMisPagos(t *testing.T) {
	view := Resolve(userWithRole(models.RoleApoderado), true, PageTienda, mustURL(t, "http://localhost/"))

	assert.Equal(t, PageMisPagos, view.Page)
	assert.True(t, view.Chrome, "navigation stays so the user can log out")
	assert.False(t, view.Restricted)
}

func TestResolve_TabParamOverridesRequested(t *testing.T) {
	view := Resolve(userWithRole(models.RolePublic), false, PageHome, mustURL(t, "http://localhost/?tab=perfil"))
	assert.Equal(t, PagePerfil, view.Page)
}

func TestResolve_GatewayReturns(t *testing.T) {
	t.Run("online return is full screen without chrome", func(t *testing.T) {
		view := Resolve(userWithRole(models.RoleApoderado), false, PageHome,
			mustURL(t, "http://localhost/pagos-online-retorno?token_ws=abc"))

		assert.Equal(t, PagePagoOnlineReturn, view.Page)
		assert.False(t, view.Chrome)
	})

	t.Run("online return wins over blocking", func(t *testing.T) {
		view := Resolve(userWithRole(models.RoleApoderado), true, PageHome,
			mustURL(t, "http://localhost/pagos-online-retorno?token_ws=abc"))
		assert.Equal(t, PagePagoOnlineReturn, view.Page)
	})

	t.Run("store return forces tienda", func(t *testing.T) {
		view := Resolve(userWithRole(models.RoleApoderado), false, PageHome,
			mustURL(t, "http://localhost/tienda-webpay-retorno?token_ws=def"))

		assert.Equal(t, PageTienda, view.Page)
		assert.Equal(t, TiendaVariantApoderado, view.TiendaVariant)
	})

	t.Run("matricula return forces the form regardless of role", func(t *testing.T) {
		view := Resolve(userWithRole(models.RoleApoderado), false, PageHome,
			mustURL(t, "http://localhost/webpay-retorno?token_ws=ghi"))

		assert.Equal(t, PageMatricula, view.Page)
		assert.False(t, view.Restricted)
	})

	t.Run("blocking wins over store return", func(t *testing.T) {
		view := Resolve(userWithRole(models.RoleApoderado), true, PageHome,
			mustURL(t, "http://localhost/tienda-webpay-retorno?token_ws=def"))
		assert.Equal(t, PageMisPagos, view.Page)
	})
}
