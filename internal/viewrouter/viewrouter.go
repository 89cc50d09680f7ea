// Package viewrouter реализует чистый резолвер представлений портала:
// по пользователю, флагу блокировки, запрошенной странице и URL он решает,
// какую страницу показать и с какими ограничениями. Резолвер не делает
// ввода-вывода и не мутирует состояние, вся политика доступа собрана здесь.
package viewrouter

import (
	"net/url"

	"github.com/magabrotheeeer/club-portal/internal/models"
	"github.com/magabrotheeeer/club-portal/internal/payment"
)

// Page — имя страницы портала. Значения совпадают с параметром ?tab=.
type Page string

const (
	PageHome           Page = "home"
	PagePerfil         Page = "perfil"
	PageTienda         Page = "tienda"
	PageMisAtletas     Page = "mis-atletas"
	PageMisPagos       Page = "mis-pagos"
	PageMisPedidos     Page = "mis-pedidos"
	PageHorarios       Page = "horarios"
	PageNotificaciones Page = "notificaciones"
	PageMatricula      Page = "matricula"
	PageAdmin          Page = "admin"
	// PagePagoOnlineReturn — выделенный полноэкранный экран ожидания
	// возврата онлайн-оплаты, без навигации и футера.
	PagePagoOnlineReturn Page = "pago-online-retorno"
)

// Варианты магазина: апод и админ видят расширенную витрину.
const (
	TiendaVariantApoderado = "apoderado"
	TiendaVariantPublica   = "publica"
)

// Заголовки экранов ограничения доступа.
const (
	HeadingRestricted = "Acceso Restringido"
	HeadingDenied     = "Acceso Denegado"
)

// View — результат резолвинга: что показывать и как.
type View struct {
	Page Page
	// Chrome выключается только у полноэкранного возврата онлайн-оплаты.
	Chrome bool
	// Restricted означает экран ограничения доступа вместо содержимого.
	Restricted bool
	Heading    string
	Reason     string
	// TiendaVariant заполняется только для страницы магазина.
	TiendaVariant string
}

// Страницы, требующие сессии: аноним с них уводится на главную. Магазина в
// списке нет — аноним остаётся на нём и видит экран ограничения.
var requiereSesion = map[Page]bool{
	PagePerfil:         true,
	PageMisAtletas:     true,
	PageMisPagos:       true,
	PageMisPedidos:     true,
	PageHorarios:       true,
	PageNotificaciones: true,
	PageAdmin:          true,
	PageMatricula:      true,
}

// Resolve вычисляет представление. Приоритет переопределений: возврат
// онлайн-оплаты, блокировка аккаунта, возврат магазина/матрикулы, параметр
// tab, затем обычные правила доступа по ролям.
func Resolve(user *models.User, isBlocked bool, requested Page, u *url.URL) View {
	var ret payment.Return
	var isReturn bool
	if u != nil {
		ret, isReturn = payment.DetectReturn(u)
		if tab := u.Query().Get("tab"); tab != "" {
			requested = Page(tab)
		}
	}

	if isReturn && ret.Kind == payment.ReturnOnline {
		return View{Page: PagePagoOnlineReturn, Chrome: false}
	}

	// Блокировка прижимает пользователя к "Мис Пагос", но навигация
	// остаётся: сменить аккаунт или выйти можно всегда.
	if isBlocked {
		return View{Page: PageMisPagos, Chrome: true}
	}

	if isReturn {
		switch ret.Kind {
		case payment.ReturnStore:
			// витрина сама обрабатывает token_ws
			requested = PageTienda
		case payment.ReturnMatricula:
			// форма матрикулы форсируется без проверки роли
			return View{Page: PageMatricula, Chrome: true}
		}
	}

	if user == nil && requiereSesion[requested] {
		requested = PageHome
	}

	view := View{Page: requested, Chrome: true}
	switch requested {
	case PageHome:
		return view
	case PagePerfil:
		if user == nil {
			return restricted(requested, HeadingRestricted, "Por favor inicia sesión para ver tu perfil")
		}
	case PageTienda:
		if user == nil {
			return restricted(requested, HeadingRestricted, "Por favor inicia sesión para acceder a la tienda")
		}
		view.TiendaVariant = TiendaVariantPublica
		if user.Role == models.RoleApoderado || user.Role == models.RoleAdmin {
			view.TiendaVariant = TiendaVariantApoderado
		}
	case PageMisAtletas, PageMisPagos, PageHorarios:
		if user == nil || (user.Role != models.RoleApoderado && user.Role != models.RoleAdmin) {
			return restricted(requested, HeadingRestricted, "Solo los apoderados pueden acceder a esta sección")
		}
	case PageMisPedidos:
		if user == nil {
			return restricted(requested, HeadingRestricted, "Por favor inicia sesión para ver tus pedidos")
		}
	case PageNotificaciones:
		if user == nil {
			return restricted(requested, HeadingRestricted, "Por favor inicia sesión para ver tus notificaciones")
		}
	case PageMatricula:
		if user == nil {
			return restricted(requested, HeadingRestricted, "Por favor inicia sesion para matricular un atleta")
		}
		if user.Role != models.RolePublic {
			return restricted(requested, HeadingRestricted,
				"Esta opcion esta disponible para usuarios publicos. Si eres apoderado, matricula desde tus atletas.")
		}
	case PageAdmin:
		if user == nil || user.Role != models.RoleAdmin {
			return restricted(requested, HeadingDenied, "Solo los administradores pueden acceder a este panel")
		}
	default:
		view.Page = PageHome
	}
	return view
}

func restricted(page Page, heading, reason string) View {
	return View{
		Page:       page,
		Chrome:     true,
		Restricted: true,
		Heading:    heading,
		Reason:     reason,
	}
}
