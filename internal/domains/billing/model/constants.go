package model

// Plan keys
const (
	PlanBasic           = "BASIC"
	PlanInfluencer      = "INFLUENCER"
	PlanInfluencerMedia = "INFLUENCER_MEDIA"
	PlanPremium         = "premium"
	PlanAgency          = "AGENCY"
)

// Permissions granted by plans
const (
	PermissionInfluencerList = "influencerlist"
	PermissionMedia          = "media"
)

// Customer metadata keys written by the webhook and read back by access checks
const (
	MetaSubscriptionPlan   = "subscription_plan"
	MetaSubscriptionStatus = "subscription_status"
	MetaSubscriptionStart  = "subscription_start_date"
	MetaSubscriptionEnd    = "subscription_end_date"
	MetaSubscriptionID     = "stripe_subscription_id"
	MetaTrialEnd           = "trial_end_date"
	MetaLegacyPlan         = "plan"
	MetaCheckoutPlanKey    = "plan_key"
)

// Subscription statuses
const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusCanceled = "canceled"
	StatusPastDue  = "past_due"
	StatusInactive = "inactive"
)

// Stripe event types handled by the webhook
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventSubscriptionUpdated      = "customer.subscription.updated"
	EventSubscriptionDeleted      = "customer.subscription.deleted"
	EventInvoicePaymentFailed     = "invoice.payment_failed"
)

// Webhook event log statuses
const (
	WebhookStatusReceived  = "received"
	WebhookStatusProcessed = "processed"
	WebhookStatusFailed    = "failed"
	WebhookStatusIgnored   = "ignored"
)

// Access validation methods
const (
	AccessMethodDemo         = "demo"
	AccessMethodSession      = "session"
	AccessMethodSubscription = "subscription"
	AccessMethodMetadata     = "metadata"
)

// Demo mode payload
const (
	DemoCustomerID = "demo_customer"
	DemoEmail      = "demo@plik.ca"
	DemoPlanID     = "demo_plan"
)

const (
	// MetadataTimeLayout is ISO 8601 with milliseconds, matching what Stripe dashboards show.
	MetadataTimeLayout = "2006-01-02T15:04:05.000Z07:00"

	CheckoutSessionPlaceholder = "{CHECKOUT_SESSION_ID}"
	DefaultAppURL              = "https://app.plik.ca"
	PortalLoginPath            = "/customer-portal-login"

	SubscriptionLookupLimit = 10
)
