package routes

import "time"

var (
	SignupDurationSecondsBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	LoginDurationSecondsBuckets  = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}

	HealthCheckTimeout = 2 * time.Second
)

const (
	// API route patterns
	IndexRouteAPI          = "GET /{$}"
	HealthRouteAPI         = "GET /healthz"
	MetricsRouteAPI        = "GET /metrics"
	ListUsersRouteAPI      = "GET /users"
	GetUserRouteAPI        = "GET /users/{id}"
	SignupRouteAPI         = "POST /users"
	LoginRouteAPI          = "POST /users/login"
	LogoutRouteAPI         = "DELETE /users/logout"
	ListExercisesRouteAPI  = "GET /exercise"
	GetExerciseRouteAPI    = "GET /exercise/{id}"
	CreateExerciseRouteAPI = "POST /exercise"
	UpdateExerciseRouteAPI = "PATCH /exercise/{id}"
	DeleteExerciseRouteAPI = "DELETE /exercise/{id}"

	PathID = "id"

	// Header constants
	ContentType         = "Content-Type"
	ContentTypeJson     = "application/json"
	ContentTypeText     = "text/plain; charset=utf-8"
	ExposeHeadersHeader = "Access-Control-Expose-Headers"

	// message constants
	MsgHello   = "hello"
	MsgHealthy = "ok"

	// Error messages
	ErrInvalidContentType     = "content-Type must be application/json"
	ErrInvalidContentTypeFmt  = "invalid content-type: %s"
	ErrInvalidRequestBody     = "invalid request body"
	ErrValidationFailed       = "data validation failed"
	ErrFailedToRegisterUser   = "failed to register user"
	ErrFailedToEncodeResponse = "failed to encode response"
	ErrInvalidCredentials     = "invalid username or password"
	ErrFailedToLogout         = "failed to log out"
	ErrRetrievingUser         = "failed to retrieve user"
	ErrRetrievingUsers        = "failed to list users"
	ErrRetrievingExercises    = "failed to list exercises"
	ErrRetrievingExercise     = "failed to retrieve exercise"
	ErrFailedToCreateExercise = "failed to create exercise"
	ErrFailedToUpdateExercise = "failed to update exercise"
	ErrFailedToDeleteExercise = "failed to delete exercise"
	ErrLoginRequired          = "authentication required"
	ErrUnhealthy              = "database unreachable"

	// metrics constants
	SignupRequestsTotal       = "signup_requests_total"
	SignupRequestsTotalHelp   = "Total number of signup requests received"
	SignupSuccessTotal        = "signup_success_total"
	SignupSuccessTotalHelp    = "Total number of successful signup requests"
	SignupErrorsTotal         = "signup_errors_total"
	SignupErrorsTotalHelp     = "Total number of errors during signup requests"
	SignupDurationSeconds     = "signup_duration_seconds"
	SignupDurationSecondsHelp = "Duration of signup requests in seconds"
	LoginRequestsTotal        = "login_requests_total"
	LoginRequestsTotalHelp    = "Total number of login requests received"
	LoginSuccessTotal         = "login_success_total"
	LoginSuccessTotalHelp     = "Total number of successful login requests"
	LoginFailedTotal          = "login_failed_total"
	LoginFailedTotalHelp      = "Total number of failed login requests"
	LoginDurationSeconds      = "login_duration_seconds"
	LoginDurationSecondsHelp  = "Duration of login requests in seconds"
	LogoutTotal               = "logout_total"
	LogoutTotalHelp           = "Total number of successful logouts"
	ExerciseWritesTotal       = "exercise_writes_total"
	ExerciseWritesTotalHelp   = "Total number of exercise writes by operation and result"
)
