package payment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/lib/sl"
	"github.com/magabrotheeeer/club-portal/internal/metrics"
	"github.com/magabrotheeeer/club-portal/internal/models"
)

// State — фаза текущего платежа. Поток строго линейный: из Confirmed и
// Failed можно выйти только через Reset.
type State string

const (
	StateIdle           State = "idle"
	StateChargeCreated  State = "charge_created"
	StateRedirecting    State = "redirecting"
	StateReturnDetected State = "return_detected"
	StateConfirming     State = "confirming"
	StateConfirmed      State = "confirmed"
	StateFailed         State = "failed"
)

// PaymentsService описывает операции Webpay бэкенда для матрикул и
// онлайн-обязательств.
type PaymentsService interface {
	InitWebpay(ctx context.Context, matriculaID string, monto float64, buyOrder, sessionID string) apiclient.Response[models.WebpayInit]
	ConfirmWebpay(ctx context.Context, token string) apiclient.Response[models.WebpayConfirmation]
	InitOnlineWebpay(ctx context.Context, obligacionID, buyOrder, sessionID string) apiclient.Response[models.WebpayInit]
	ConfirmOnlineWebpay(ctx context.Context, token string) apiclient.Response[models.WebpayConfirmation]
	Autopay(ctx context.Context) apiclient.Response[models.AutopayResult]
}

// OrdersService описывает операции Webpay магазина.
type OrdersService interface {
	InitOrderWebpay(ctx context.Context, orderID string) apiclient.Response[models.WebpayInit]
	ConfirmOrderWebpay(ctx context.Context, token string) apiclient.Response[models.WebpayConfirmation]
}

// SessionUpdater — та часть держателя сессии, которую трогает платёжный
// поток: снимок пользователя из подтверждения и последующая пересинхронизация.
type SessionUpdater interface {
	User() *models.User
	ApplyServerSnapshot(user models.User)
	UpgradeToApoderado()
	RefreshUser(ctx context.Context)
}

// Pending — платёж в полёте. BuyOrder и SessionID генерируются по
// фиксированным шаблонам, которые бэкенд пробрасывает в Transbank.
type Pending struct {
	ID          string
	Kind        ReturnKind
	TargetID    string
	BuyOrder    string
	SessionID   string
	InitiatedAt time.Time
}

// ConfirmOutcome — итог подтверждения возврата.
type ConfirmOutcome struct {
	Success bool
	Status  string
	Detail  string
	Kind    ReturnKind
}

// Flow — машина состояний платежа. Один полёт за раз: повторный Start при
// незавершённом платеже перезаписывает брошенный.
type Flow struct {
	mu      sync.Mutex
	state   State
	pending *Pending

	payments PaymentsService
	orders   OrdersService
	session  SessionUpdater
	metrics  *metrics.Metrics
	log      *slog.Logger
	now      func() time.Time
}

// NewFlow создаёт платёжный поток в состоянии Idle.
func NewFlow(payments PaymentsService, orders OrdersService, session SessionUpdater, m *metrics.Metrics, log *slog.Logger) *Flow {
	return &Flow{
		state:    StateIdle,
		payments: payments,
		orders:   orders,
		session:  session,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// State возвращает текущую фазу потока.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Pending возвращает копию платежа в полёте или nil.
func (f *Flow) Pending() *Pending {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == nil {
		return nil
	}
	p := *f.pending
	return &p
}

// Reset возвращает поток в Idle, забывая платёж в полёте.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateIdle
	f.pending = nil
}

// StartMatricula создаёт транзакцию оплаты матрикулы и переводит поток в
// Redirecting. Возвращённые URL и токен уходят в автосабмит-форму.
func (f *Flow) StartMatricula(ctx context.Context, matriculaID string, monto float64) (models.WebpayInit, error) {
	const op = "payment.StartMatricula"

	buyOrder, sessionID := f.orderIdentifiers("orden", matriculaID)
	res := f.payments.InitWebpay(ctx, matriculaID, monto, buyOrder, sessionID)
	if !res.Success {
		f.log.Error("failed to init matricula payment", slog.String("op", op), sl.Err(res.Error))
		return models.WebpayInit{}, fmt.Errorf("%s: %w", op, res.Error)
	}
	f.track(ReturnMatricula, matriculaID, buyOrder, sessionID)
	return res.Data, nil
}

// StartOnline создаёт транзакцию онлайн-оплаты обязательства.
func (f *Flow) StartOnline(ctx context.Context, obligacionID string) (models.WebpayInit, error) {
	const op = "payment.StartOnline"

	buyOrder, sessionID := f.orderIdentifiers("po", obligacionID)
	res := f.payments.InitOnlineWebpay(ctx, obligacionID, buyOrder, sessionID)
	if !res.Success {
		f.log.Error("failed to init online payment", slog.String("op", op), sl.Err(res.Error))
		return models.WebpayInit{}, fmt.Errorf("%s: %w", op, res.Error)
	}
	f.track(ReturnOnline, obligacionID, buyOrder, sessionID)
	return res.Data, nil
}

// StartOrder создаёт транзакцию оплаты заказа магазина. Идентификаторы
// buy_order/session_id для заказов выставляет сам бэкенд.
func (f *Flow) StartOrder(ctx context.Context, orderID string) (models.WebpayInit, error) {
	const op = "payment.StartOrder"

	res := f.orders.InitOrderWebpay(ctx, orderID)
	if !res.Success {
		f.log.Error("failed to init order payment", slog.String("op", op), sl.Err(res.Error))
		return models.WebpayInit{}, fmt.Errorf("%s: %w", op, res.Error)
	}
	f.track(ReturnStore, orderID, "", "")
	return res.Data, nil
}

// HandleReturn фиксирует распознанный возврат со шлюза.
func (f *Flow) HandleReturn(ret Return) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateReturnDetected
}

// Confirm подтверждает возврат на бэкенде. Пустой токен означает прерванную
// на шлюзе оплату и проваливает поток без запроса. Подтверждение матрикулы
// может принести обновлённый снимок пользователя (смена роли); он
// применяется немедленно, после чего профиль пересинхронизируется с
// сервером вместе с пересчётом блокировки.
func (f *Flow) Confirm(ctx context.Context, ret Return) ConfirmOutcome {
	const op = "payment.Confirm"
	log := f.log.With(slog.String("op", op), slog.String("kind", string(ret.Kind)))

	if ret.Token == "" {
		log.Warn("gateway return without token, treating as aborted")
		f.finish(StateFailed)
		f.count(ret.Kind, "aborted")
		return ConfirmOutcome{Success: false, Status: "aborted", Detail: "El pago fue anulado", Kind: ret.Kind}
	}

	f.setState(StateConfirming)

	var res apiclient.Response[models.WebpayConfirmation]
	switch ret.Kind {
	case ReturnStore:
		res = f.orders.ConfirmOrderWebpay(ctx, ret.Token)
	case ReturnOnline:
		res = f.payments.ConfirmOnlineWebpay(ctx, ret.Token)
	default:
		res = f.payments.ConfirmWebpay(ctx, ret.Token)
	}

	if !res.Success {
		log.Error("payment confirmation failed", sl.Err(res.Error))
		f.finish(StateFailed)
		f.count(ret.Kind, "error")
		detail := apiclient.MsgServerError
		if res.Error != nil && res.Error.Message != "" {
			detail = res.Error.Message
		}
		return ConfirmOutcome{Success: false, Status: "error", Detail: detail, Kind: ret.Kind}
	}

	conf := res.Data
	ok := conf.Status == "AUTHORIZED" || conf.Status == "success" || conf.Status == "ok"
	if ok {
		f.finish(StateConfirmed)
		f.count(ret.Kind, "confirmed")
	} else {
		f.finish(StateFailed)
		f.count(ret.Kind, "rejected")
	}

	if conf.User != nil {
		f.session.ApplyServerSnapshot(*conf.User)
	} else if ok && ret.Kind == ReturnMatricula {
		// сервер не прислал снимок: повышаем роль локально, пока
		// RefreshUser не принесёт серверную
		f.session.UpgradeToApoderado()
	}
	if ok && ret.Kind != ReturnStore {
		f.session.RefreshUser(ctx)
	}

	log.Info("payment confirmation finished", slog.String("status", conf.Status), slog.Bool("ok", ok))
	return ConfirmOutcome{Success: ok, Status: conf.Status, Detail: conf.Detail, Kind: ret.Kind}
}

// Autopay запускает батч-автосписание просроченных обязательств картами по
// умолчанию и пересинхронизирует профиль, если что-то списалось.
func (f *Flow) Autopay(ctx context.Context) (models.AutopayResult, error) {
	const op = "payment.Autopay"

	res := f.payments.Autopay(ctx)
	if !res.Success {
		f.log.Error("autopay failed", slog.String("op", op), sl.Err(res.Error))
		return models.AutopayResult{}, fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.Data.Pagadas > 0 {
		f.session.RefreshUser(ctx)
	}
	return res.Data, nil
}

// orderIdentifiers генерирует buy_order и session_id по фиксированным
// шаблонам: "<prefix>-<id>-<millis>" и "sess-<userId|anon>-<millis>".
// Матрикула использует префикс "orden", онлайн-обязательства — "po".
func (f *Flow) orderIdentifiers(prefix, targetID string) (buyOrder, sessionID string) {
	millis := f.now().UnixMilli()
	owner := "anon"
	if u := f.session.User(); u != nil && u.ID.String() != "" {
		owner = u.ID.String()
	}
	return fmt.Sprintf("%s-%s-%d", prefix, targetID, millis),
		fmt.Sprintf("sess-%s-%d", owner, millis)
}

func (f *Flow) track(kind ReturnKind, targetID, buyOrder, sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = &Pending{
		ID:          uuid.NewString(),
		Kind:        kind,
		TargetID:    targetID,
		BuyOrder:    buyOrder,
		SessionID:   sessionID,
		InitiatedAt: f.now(),
	}
	f.state = StateRedirecting
}

func (f *Flow) setState(s State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = s
}

func (f *Flow) finish(s State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = s
	f.pending = nil
}

func (f *Flow) count(kind ReturnKind, result string) {
	if f.metrics == nil {
		return
	}
	f.metrics.PaymentConfirmations.WithLabelValues(string(kind), result).Inc()
}
