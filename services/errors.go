package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
// Отказы гардов назначения ошибками НЕ являются — они возвращаются как
// типизированный AssignmentResult (см. assignment_service.go).
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed = errors.New("validation failed")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrEmptyBatch       = errors.New("batch confirmation requires at least one pair")

	// Ошибки аутентификации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей (дают больше контекста, чем ErrNotFound)
	ErrLeagueNotFound   = errors.New("league not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrMatchdayNotFound = errors.New("matchday not found")
	ErrMatchNotFound    = errors.New("match not found")
	ErrRefereeNotFound  = errors.New("referee not found")
	ErrTeamNotFound     = errors.New("team not found")
	ErrUserNotFound     = errors.New("user not found")

	// Ошибки генерации календаря
	ErrFixtureNotEnoughTeams = errors.New("fixture generation requires at least 2 teams")
)
