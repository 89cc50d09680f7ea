// Package session реализует держатель сессии портала — машину состояний
// авторизации {Anonymous, Authenticated(role), Authenticated+Blocked}.
// Состояние мутируют только операции самого держателя; представления читают
// его через аксессоры. Это единственный механизм конкурентной безопасности
// для процессного состояния сессии.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/club-portal/internal/apiclient"
	"github.com/magabrotheeeer/club-portal/internal/lib/sl"
	"github.com/magabrotheeeer/club-portal/internal/lib/token"
	"github.com/magabrotheeeer/club-portal/internal/models"
	"github.com/magabrotheeeer/club-portal/internal/services/auth"
	"github.com/magabrotheeeer/club-portal/internal/storage"
)

// Минимальный порог блокировки в днях: переопределение из configuracionDeuda
// не может опуститься ниже.
const minDiasBloqueo = 4

// AuthService описывает нужные держателю операции аутентификации.
type AuthService interface {
	Login(ctx context.Context, email, password string) apiclient.Response[auth.SessionData]
	Register(ctx context.Context, req auth.RegisterRequest) apiclient.Response[auth.SessionData]
	Logout(ctx context.Context)
	Me(ctx context.Context) apiclient.Response[models.User]
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) apiclient.Response[models.User]
	RequestPasswordReset(ctx context.Context, email string) apiclient.Response[map[string]any]
	ValidateResetCode(ctx context.Context, email, code string) apiclient.Response[map[string]any]
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) apiclient.Response[map[string]any]
}

// UserService описывает смену роли пользователя.
type UserService interface {
	ChangeRole(ctx context.Context, userID, role string) apiclient.Response[models.User]
}

// DebtService описывает чтение задолженностей для вычисления блокировки.
type DebtService interface {
	MyDebts(ctx context.Context) apiclient.Response[[]models.Debt]
}

// Session — процессный держатель сессии. Конструируется один раз на старте
// приложения и живёт до конца процесса; сбрасывается только собственным
// Logout/Clear.
type Session struct {
	mu        sync.RWMutex
	user      *models.User
	isBlocked bool

	auth  AuthService
	users UserService
	debts DebtService
	store *storage.Store
	log   *slog.Logger

	defaultDiasBloqueo int
	now                func() time.Time
}

// LoginResult — итог входа. Message заполняется только при неудаче.
type LoginResult struct {
	Success bool
	Message string
}

// New создаёт держатель сессии.
func New(authSvc AuthService, usersSvc UserService, debtsSvc DebtService, store *storage.Store, defaultDiasBloqueo int, log *slog.Logger) *Session {
	if defaultDiasBloqueo <= 0 {
		defaultDiasBloqueo = 30
	}
	return &Session{
		auth:               authSvc,
		users:              usersSvc,
		debts:              debtsSvc,
		store:              store,
		log:                log,
		defaultDiasBloqueo: defaultDiasBloqueo,
		now:                time.Now,
	}
}

// User возвращает копию текущего пользователя или nil для анонимной сессии.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsBlocked возвращает текущий флаг блокировки.
func (s *Session) IsBlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isBlocked
}

// Login выполняет вход. При неудаче состояние не меняется, а серверное
// сообщение сводится к небольшому набору пользовательских текстов;
// нераспознанные тексты проходят как есть.
func (s *Session) Login(ctx context.Context, email, password string) LoginResult {
	const op = "session.Login"
	log := s.log.With(slog.String("op", op))

	res := s.auth.Login(ctx, email, password)
	if !res.Success {
		log.Warn("login failed", sl.Err(res.Error))
		return LoginResult{Success: false, Message: friendlyLoginMessage(res.Error)}
	}

	s.setUser(res.Data.User)
	s.EvaluateBlock(ctx)
	log.Info("login succeeded", slog.String("role", res.Data.User.Role))
	return LoginResult{Success: true}
}

// Register регистрирует нового пользователя и при успехе открывает сессию.
func (s *Session) Register(ctx context.Context, req auth.RegisterRequest) bool {
	const op = "session.Register"

	res := s.auth.Register(ctx, req)
	if !res.Success {
		s.log.Warn("register failed", slog.String("op", op), sl.Err(res.Error))
		return false
	}
	s.setUser(res.Data.User)
	s.EvaluateBlock(ctx)
	return true
}

// Logout завершает сессию. Серверная инвалидация refresh-токена делается по
// возможности, её отказ проглатывается: локально logout успешен всегда.
func (s *Session) Logout(ctx context.Context) {
	s.auth.Logout(ctx)
	s.Clear()
}

// Clear безусловно сбрасывает процессное состояние сессии. Локальное
// хранилище чистит вызвавшая сторона (auth.Logout или обработчик 401).
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.isBlocked = false
}

// RefreshUser перечитывает профиль с сервера. При отказе прежнее состояние
// остаётся нетронутым: разлогинивает только 401-обработчик HTTP-клиента.
func (s *Session) RefreshUser(ctx context.Context) {
	const op = "session.RefreshUser"

	res := s.auth.Me(ctx)
	if !res.Success {
		s.log.Warn("failed to refresh user, keeping cached state",
			slog.String("op", op), sl.Err(res.Error))
		return
	}
	s.setUser(res.Data)
	s.EvaluateBlock(ctx)
}

// EvaluateBlock пересчитывает флаг блокировки: пользователь блокируется,
// если какая-то непогашенная задолженность просрочена не меньше порога.
// Админ не блокируется никогда. Отказ загрузки долгов трактуется в пользу
// пользователя: блокировка снимается, а не ставится.
func (s *Session) EvaluateBlock(ctx context.Context) {
	const op = "session.EvaluateBlock"
	log := s.log.With(slog.String("op", op))

	user := s.User()
	if user == nil || user.IsAdmin() {
		s.setBlocked(false)
		return
	}

	threshold := s.blockThreshold()

	res := s.debts.MyDebts(ctx)
	if !res.Success {
		log.Warn("failed to fetch debts, failing open", sl.Err(res.Error))
		s.setBlocked(false)
		return
	}

	maxAtraso := 0
	today := s.now()
	for _, debt := range res.Data {
		if debt.Estado == "pagado" || debt.FechaVencimiento == "" {
			continue
		}
		due, err := parseDueDate(debt.FechaVencimiento)
		if err != nil {
			continue
		}
		days := int(today.Sub(due).Hours() / 24)
		if days > maxAtraso {
			maxAtraso = days
		}
	}

	blocked := maxAtraso >= threshold
	if blocked {
		log.Info("account blocked by overdue debt",
			slog.Int("max_overdue_days", maxAtraso), slog.Int("threshold", threshold))
	}
	s.setBlocked(blocked)
}

// blockThreshold возвращает порог блокировки: значение из configuracionDeuda,
// ограниченное снизу, либо значение по умолчанию.
func (s *Session) blockThreshold() int {
	raw, err := s.store.Get(storage.KeyDebtConfig)
	if err != nil {
		return s.defaultDiasBloqueo
	}
	var cfg struct {
		DiasBloqueo *int `json:"diasBloqueo"`
	}
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil || cfg.DiasBloqueo == nil {
		return s.defaultDiasBloqueo
	}
	if *cfg.DiasBloqueo < minDiasBloqueo {
		return minDiasBloqueo
	}
	return *cfg.DiasBloqueo
}

// UpdateUserRole запрашивает смену роли на сервере и сразу отражает её в
// кеше, если речь о текущем пользователе. Ответ сервера не дожидается и не
// проверяется — семантика fire-and-forget сохранена намеренно.
func (s *Session) UpdateUserRole(ctx context.Context, userID, newRole string) bool {
	const op = "session.UpdateUserRole"

	res := s.users.ChangeRole(ctx, userID, newRole)
	if !res.Success {
		s.log.Warn("role change request failed, local state already updated",
			slog.String("op", op), sl.Err(res.Error))
	}

	s.mu.Lock()
	if s.user != nil && s.user.ID.String() == userID {
		s.user.Role = newRole
		s.persistUserLocked()
	}
	s.mu.Unlock()
	return true
}

// UpdateUserProfile отправляет частичное обновление профиля и оптимистично
// накладывает его на кеш независимо от исхода запроса; рассинхронизация
// доживает до следующего RefreshUser.
func (s *Session) UpdateUserProfile(ctx context.Context, update models.ProfileUpdate) bool {
	const op = "session.UpdateUserProfile"

	if s.User() == nil {
		return false
	}

	res := s.auth.UpdateProfile(ctx, update)
	if !res.Success {
		s.log.Warn("profile update rejected by server, keeping optimistic local copy",
			slog.String("op", op), sl.Err(res.Error))
	}

	s.mu.Lock()
	if s.user != nil {
		merged := update.Apply(*s.user)
		s.user = &merged
		s.persistUserLocked()
	}
	s.mu.Unlock()
	return true
}

// UpgradeToApoderado локально повышает публичного пользователя до апода.
// Серверная промоция происходит при подтверждении оплаты матрикулы.
func (s *Session) UpgradeToApoderado() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.Role != models.RolePublic {
		return
	}
	s.user.Role = models.RoleApoderado
	s.persistUserLocked()
}

// ApplyServerSnapshot замещает кеш пользователя снимком, пришедшим от
// сервера вне обычного цикла Me (например, в ответе подтверждения платежа).
func (s *Session) ApplyServerSnapshot(user models.User) {
	s.setUser(user)
}

// RequestPasswordReset запрашивает код восстановления пароля.
func (s *Session) RequestPasswordReset(ctx context.Context, email string) bool {
	return s.auth.RequestPasswordReset(ctx, email).Success
}

// ValidateResetCode проверяет код восстановления.
func (s *Session) ValidateResetCode(ctx context.Context, email, code string) bool {
	return s.auth.ValidateResetCode(ctx, email, code).Success
}

// ResetPassword подтверждает смену пароля по коду.
func (s *Session) ResetPassword(ctx context.Context, email, code, newPassword string) bool {
	return s.auth.ConfirmPasswordReset(ctx, email, code, newPassword).Success
}

// Restore тихо восстанавливает сессию при старте процесса: поднимает
// сохранённый снимок пользователя и перечитывает профиль. Протухший access
// токен не мешает восстановлению — его вылечит refresh в HTTP-клиенте.
func (s *Session) Restore(ctx context.Context) {
	const op = "session.Restore"
	log := s.log.With(slog.String("op", op))

	access := s.store.AccessToken()
	if access == "" {
		return
	}
	if raw, err := s.store.Get(storage.KeyUser); err == nil {
		var user models.User
		if err := json.Unmarshal([]byte(raw), &user); err == nil {
			s.mu.Lock()
			s.user = &user
			s.mu.Unlock()
		}
	}
	if token.Expired(access, s.now()) {
		log.Info("stored access token expired, relying on silent refresh")
	}
	s.RefreshUser(ctx)
}

func (s *Session) setUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.persistUserLocked()
}

func (s *Session) setBlocked(blocked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isBlocked = blocked
}

// persistUserLocked пишет снимок пользователя в хранилище. Вызывается только
// под захваченным мьютексом.
func (s *Session) persistUserLocked() {
	raw, err := json.Marshal(s.user)
	if err != nil {
		s.log.Error("failed to encode user snapshot", sl.Err(err))
		return
	}
	if err := s.store.Set(storage.KeyUser, string(raw)); err != nil {
		s.log.Error("failed to persist user snapshot", sl.Err(err))
	}
}

// friendlyLoginMessage сводит серверные тексты отказа входа к фиксированному
// набору; незнакомые сообщения проходят дословно.
func friendlyLoginMessage(apiErr *apiclient.APIError) string {
	raw := ""
	if apiErr != nil {
		raw = apiErr.Message
	}
	normalized := strings.ToLower(raw)
	switch {
	case strings.Contains(normalized, "no active account"):
		return "Credenciales incorrectas"
	case strings.Contains(normalized, "disabled"):
		return "La cuenta está deshabilitada"
	case raw != "":
		return raw
	default:
		return "Credenciales incorrectas"
	}
}

// parseDueDate разбирает fecha_vencimiento; бэкенд отдаёт дату как
// YYYY-MM-DD, иногда с временной частью.
func parseDueDate(value string) (time.Time, error) {
	if len(value) > 10 {
		value = value[:10]
	}
	return time.Parse("2006-01-02", value)
}
