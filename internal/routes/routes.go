package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	structValidator "github.com/go-playground/validator/v10"

	"github.com/haguru/tracker/internal/apperrors"
	"github.com/haguru/tracker/internal/interfaces"
	"github.com/haguru/tracker/internal/middleware"
	"github.com/haguru/tracker/internal/models"
	"github.com/haguru/tracker/internal/models/dto"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Route struct {
	Metrics         interfaces.Metrics
	UserService     interfaces.UserService
	ExerciseService interfaces.ExerciseService
	Health          HealthChecker
	Logger          interfaces.Logger
	validator       *structValidator.Validate
}

// NewRoute creates a new Route instance. metrics and health may be nil.
func NewRoute(metrics interfaces.Metrics, userService interfaces.UserService,
	exerciseService interfaces.ExerciseService, health HealthChecker,
	logger interfaces.Logger, validator *structValidator.Validate,
) *Route {
	return &Route{
		Metrics:         metrics,
		UserService:     userService,
		ExerciseService: exerciseService,
		Health:          health,
		Logger:          logger,
		validator:       validator,
	}
}

// RegisterMetrics registers the signup, login and exercise metrics written by the handlers.
func RegisterMetrics(m interfaces.Metrics) {
	m.RegisterCounter(SignupRequestsTotal, SignupRequestsTotalHelp)
	m.RegisterCounter(SignupSuccessTotal, SignupSuccessTotalHelp)
	m.RegisterCounter(SignupErrorsTotal, SignupErrorsTotalHelp)
	m.RegisterHistogram(SignupDurationSeconds, SignupDurationSecondsHelp, SignupDurationSecondsBuckets)

	m.RegisterCounter(LoginRequestsTotal, LoginRequestsTotalHelp)
	m.RegisterCounter(LoginSuccessTotal, LoginSuccessTotalHelp)
	m.RegisterCounter(LoginFailedTotal, LoginFailedTotalHelp)
	m.RegisterHistogram(LoginDurationSeconds, LoginDurationSecondsHelp, LoginDurationSecondsBuckets)

	m.RegisterCounter(LogoutTotal, LogoutTotalHelp)
	m.RegisterCounterVec(ExerciseWritesTotal, ExerciseWritesTotalHelp, []string{"op", "result"})
}

// Register adds every API route to s. wrap, when set, decorates each handler
// with the pattern it is served under.
func (r *Route) Register(s interfaces.Server, wrap func(pattern string, h http.Handler) http.Handler) error {
	handlers := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{IndexRouteAPI, r.Index},
		{HealthRouteAPI, r.Healthz},
		{ListUsersRouteAPI, r.ListUsers},
		{GetUserRouteAPI, r.GetUser},
		{SignupRouteAPI, r.Signup},
		{LoginRouteAPI, r.Login},
		{LogoutRouteAPI, r.Logout},
		{ListExercisesRouteAPI, r.ListExercises},
		{GetExerciseRouteAPI, r.GetExercise},
		{CreateExerciseRouteAPI, r.CreateExercise},
		{UpdateExerciseRouteAPI, r.UpdateExercise},
		{DeleteExerciseRouteAPI, r.DeleteExercise},
	}
	for _, h := range handlers {
		var handler http.Handler = h.handler
		if wrap != nil {
			handler = wrap(h.pattern, handler)
		}
		if err := s.AddRoute(h.pattern, handler.ServeHTTP); err != nil {
			return fmt.Errorf("failed to add route %s: %w", h.pattern, err)
		}
	}
	return nil
}

// Index answers the root path with a plain greeting.
func (r *Route) Index(w http.ResponseWriter, req *http.Request) {
	w.Header().Set(ContentType, ContentTypeText)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, MsgHello)
}

// Healthz reports 200 while the store answers a ping and 503 otherwise.
func (r *Route) Healthz(w http.ResponseWriter, req *http.Request) {
	if r.Health != nil {
		ctx, cancel := context.WithTimeout(req.Context(), HealthCheckTimeout)
		defer cancel()
		if err := r.Health.Ping(ctx); err != nil {
			r.Logger.Error(ErrUnhealthy, "error", err)
			r.errorResponse(w, http.StatusServiceUnavailable, err, ErrUnhealthy)
			return
		}
	}
	r.writeJSON(w, http.StatusOK, map[string]string{"status": MsgHealthy})
}

// ListUsers returns every user as {id, username}.
func (r *Route) ListUsers(w http.ResponseWriter, req *http.Request) {
	users, err := r.UserService.ListUsers(req.Context())
	if err != nil {
		r.failure(w, err, ErrRetrievingUsers)
		return
	}

	resp := dto.UsersListResponseDTO{Users: make([]dto.UserSummaryDTO, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, dto.NewUserSummary(&users[i]))
	}
	r.writeJSON(w, http.StatusOK, resp)
}

// GetUser returns {id, username} for the user in the path.
func (r *Route) GetUser(w http.ResponseWriter, req *http.Request) {
	user, err := r.UserService.GetUser(req.Context(), req.PathValue(PathID))
	if err != nil {
		r.failure(w, err, ErrRetrievingUser)
		return
	}
	r.writeJSON(w, http.StatusOK, dto.NewUserSummary(user))
}

// Signup handles user signup requests.
func (r *Route) Signup(w http.ResponseWriter, req *http.Request) {
	if r.Metrics != nil {
		r.Metrics.IncCounter(SignupRequestsTotal)
	}

	signupRequest := &dto.UserSignupRequestDTO{}
	if err := r.decodeJSON(req, signupRequest); err != nil {
		r.countSignupError()
		r.failure(w, err, ErrInvalidRequestBody)
		return
	}
	signupRequest.Username = strings.TrimSpace(signupRequest.Username)

	if err := r.validator.Struct(signupRequest); err != nil {
		r.countSignupError()
		r.failure(w, fmt.Errorf("%w: %s", apperrors.ErrValidation, err), ErrValidationFailed)
		return
	}

	startTime := time.Now()
	user, token, err := r.UserService.RegisterUser(req.Context(), signupRequest.Username, signupRequest.Password)
	if err != nil {
		r.countSignupError()
		r.failure(w, err, ErrFailedToRegisterUser)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(SignupSuccessTotal)
		r.Metrics.ObserveHistogram(SignupDurationSeconds, time.Since(startTime).Seconds())
	}

	setAuthHeader(w, token)
	r.writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}

// Login handles user login requests. Every credential failure gets the same
// 400 body so callers cannot tell an unknown username from a wrong password.
func (r *Route) Login(w http.ResponseWriter, req *http.Request) {
	if r.Metrics != nil {
		r.Metrics.IncCounter(LoginRequestsTotal)
	}

	loginRequest := &dto.LoginRequestDTO{}
	if err := r.decodeJSON(req, loginRequest); err != nil {
		r.countLoginFailure(time.Time{})
		r.errorResponse(w, http.StatusBadRequest, apperrors.ErrInvalidCredentials, ErrInvalidCredentials)
		return
	}

	if err := r.validator.Struct(loginRequest); err != nil {
		r.countLoginFailure(time.Time{})
		r.errorResponse(w, http.StatusBadRequest, apperrors.ErrInvalidCredentials, ErrInvalidCredentials)
		return
	}

	startTime := time.Now()
	user, token, err := r.UserService.AuthenticateUser(req.Context(), loginRequest.Username, loginRequest.Password)
	if err != nil {
		r.countLoginFailure(startTime)
		// client-side failures share one body so existing usernames stay hidden
		if statusFor(err) != http.StatusInternalServerError {
			r.errorResponse(w, http.StatusBadRequest, apperrors.ErrInvalidCredentials, ErrInvalidCredentials)
			return
		}
		r.failure(w, err, ErrInvalidCredentials)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(LoginSuccessTotal)
		r.Metrics.ObserveHistogram(LoginDurationSeconds, time.Since(startTime).Seconds())
	}

	setAuthHeader(w, token)
	r.writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}

// Logout ends every session of the caller.
func (r *Route) Logout(w http.ResponseWriter, req *http.Request) {
	identity, ok := r.requireIdentity(w, req)
	if !ok {
		return
	}

	if err := r.UserService.Logout(req.Context(), identity.User, identity.Token); err != nil {
		r.Logger.Error(ErrFailedToLogout, "user", identity.User.ID, "error", err)
		r.errorResponse(w, http.StatusBadRequest, err, ErrFailedToLogout)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(LogoutTotal)
	}
	w.WriteHeader(http.StatusOK)
}

// ListExercises returns the caller with its exercises populated.
func (r *Route) ListExercises(w http.ResponseWriter, req *http.Request) {
	identity, ok := r.requireIdentity(w, req)
	if !ok {
		return
	}

	exercises, err := r.ExerciseService.ListExercises(req.Context(), identity.User)
	if err != nil {
		r.failure(w, err, ErrRetrievingExercises)
		return
	}

	r.writeJSON(w, http.StatusOK, dto.UserExercisesResponseDTO{
		ID:        identity.User.ID,
		Username:  identity.User.Username,
		Exercises: exercises,
	})
}

// GetExercise returns any exercise by id to an authenticated caller.
func (r *Route) GetExercise(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.requireIdentity(w, req); !ok {
		return
	}

	exercise, err := r.ExerciseService.GetExercise(req.Context(), req.PathValue(PathID))
	if err != nil {
		r.failure(w, err, ErrRetrievingExercise)
		return
	}
	r.writeJSON(w, http.StatusOK, exercise)
}

// CreateExercise stores an exercise owned by the caller.
func (r *Route) CreateExercise(w http.ResponseWriter, req *http.Request) {
	identity, ok := r.requireIdentity(w, req)
	if !ok {
		return
	}

	input, err := r.decodeExercise(req)
	if err != nil {
		r.countExerciseWrite("create", err)
		r.failure(w, err, ErrInvalidRequestBody)
		return
	}

	exercise, err := r.ExerciseService.CreateExercise(req.Context(), identity.User, input)
	r.countExerciseWrite("create", err)
	if err != nil {
		r.failure(w, err, ErrFailedToCreateExercise)
		return
	}
	r.writeJSON(w, http.StatusOK, exercise)
}

// UpdateExercise changes an exercise owned by the caller.
func (r *Route) UpdateExercise(w http.ResponseWriter, req *http.Request) {
	identity, ok := r.requireIdentity(w, req)
	if !ok {
		return
	}

	input, err := r.decodeExercise(req)
	if err != nil {
		r.countExerciseWrite("update", err)
		r.failure(w, err, ErrInvalidRequestBody)
		return
	}

	exercise, err := r.ExerciseService.UpdateExercise(req.Context(), identity.User, req.PathValue(PathID), input)
	r.countExerciseWrite("update", err)
	if err != nil {
		r.failure(w, err, ErrFailedToUpdateExercise)
		return
	}
	r.writeJSON(w, http.StatusOK, exercise)
}

// DeleteExercise removes an exercise owned by the caller.
func (r *Route) DeleteExercise(w http.ResponseWriter, req *http.Request) {
	identity, ok := r.requireIdentity(w, req)
	if !ok {
		return
	}

	err := r.ExerciseService.DeleteExercise(req.Context(), identity.User, req.PathValue(PathID))
	r.countExerciseWrite("delete", err)
	if err != nil {
		r.failure(w, err, ErrFailedToDeleteExercise)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (r *Route) requireIdentity(w http.ResponseWriter, req *http.Request) (*middleware.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(req.Context())
	if !ok {
		r.errorResponse(w, http.StatusUnauthorized, apperrors.ErrUnauthenticated, ErrLoginRequired)
		return nil, false
	}
	return identity, true
}

func (r *Route) decodeExercise(req *http.Request) (models.ExerciseInput, error) {
	body := &dto.ExerciseRequestDTO{}
	if err := r.decodeJSON(req, body); err != nil {
		return models.ExerciseInput{}, err
	}
	return body.ToInput(), nil
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
// Type mismatches such as a string duration are validation errors.
func (r *Route) decodeJSON(req *http.Request, v interface{}) error {
	if req.Body == nil || req.Body == http.NoBody || req.ContentLength == 0 {
		return nil
	}

	mediaType, _, err := mime.ParseMediaType(req.Header.Get(ContentType))
	if err != nil || mediaType != ContentTypeJson {
		return fmt.Errorf("%w: "+ErrInvalidContentTypeFmt, apperrors.ErrValidation, req.Header.Get(ContentType))
	}

	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}
	return nil
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidID),
		errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrDuplicateUsername):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// failure writes err with the status statusFor picks. Server errors keep
// their detail in the log, not in the response.
func (r *Route) failure(w http.ResponseWriter, err error, message string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		r.Logger.Error(message, "error", err)
		err = errors.New(http.StatusText(status))
	}
	r.errorResponse(w, status, err, message)
}

func (r *Route) errorResponse(w http.ResponseWriter, status int, err error, message string) {
	r.writeJSON(w, status, map[string]string{
		"error":   err.Error(),
		"message": message,
	})
}

func (r *Route) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		r.Logger.Error(ErrFailedToEncodeResponse, "error", err)
	}
}

func setAuthHeader(w http.ResponseWriter, token string) {
	w.Header().Set(middleware.AuthHeader, token)
	w.Header().Set(ExposeHeadersHeader, middleware.AuthHeader)
}

func (r *Route) countSignupError() {
	if r.Metrics != nil {
		r.Metrics.IncCounter(SignupErrorsTotal)
	}
}

func (r *Route) countLoginFailure(start time.Time) {
	if r.Metrics == nil {
		return
	}
	r.Metrics.IncCounter(LoginFailedTotal)
	if !start.IsZero() {
		r.Metrics.ObserveHistogram(LoginDurationSeconds, time.Since(start).Seconds())
	}
}

func (r *Route) countExerciseWrite(op string, err error) {
	if r.Metrics == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	r.Metrics.IncCounterVec(ExerciseWritesTotal, op, result)
}
