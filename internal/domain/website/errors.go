package website

import "errors"

var (
	ErrWebsiteNotFound = errors.New("website not found")
	ErrDomainTaken     = errors.New("a website with this domain already exists")

	ErrInvalidDomain             = errors.New("invalid domain")
	ErrInvalidTitle              = errors.New("title must be between 2 and 100 characters")
	ErrInvalidPlan               = errors.New("invalid plan")
	ErrInvalidStatus             = errors.New("invalid status")
	ErrInvalidCredits            = errors.New("credits must be between 0 and 1000000")
	ErrInvalidCreditAmount       = errors.New("credit amount must be positive")
	ErrInvalidSubscriptionPeriod = errors.New("subscription end must be after start")

	// Messenger eligibility and binding
	ErrPlanNotSupported        = errors.New("messenger requires a paid plan")
	ErrAccountInactive         = errors.New("website is not active")
	ErrInvalidMessengerBinding = errors.New("page id and page access token are required")
	ErrPageAlreadyConnected    = errors.New("facebook page is already connected to another website")
)
