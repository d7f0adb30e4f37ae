package domain

// User roles. ADMIN and staff accounts get unrestricted dashboard access.
const (
	RoleAdmin            = "ADMIN"
	RoleFarmer           = "FARMER"
	RoleConsumer         = "CONSUMER"
	RoleWarehouseManager = "WAREHOUSE_MANAGER"
	RoleAgent            = "AGENT"
)

// System setting categories.
const (
	SettingGeneral      = "GENERAL"
	SettingSecurity     = "SECURITY"
	SettingEmail        = "EMAIL"
	SettingSMS          = "SMS"
	SettingPayment      = "PAYMENT"
	SettingAPI          = "API"
	SettingFeature      = "FEATURE"
	SettingNotification = "NOTIFICATION"
)

var SettingCategories = []string{
	SettingGeneral, SettingSecurity, SettingEmail, SettingSMS,
	SettingPayment, SettingAPI, SettingFeature, SettingNotification,
}

// Health check statuses and service types.
const (
	HealthHealthy  = "HEALTHY"
	HealthWarning  = "WARNING"
	HealthCritical = "CRITICAL"
	HealthDown     = "DOWN"
)

const (
	ServiceDatabase = "DATABASE"
	ServiceRedis    = "REDIS"
	ServiceEmail    = "EMAIL"
	ServiceSMS      = "SMS"
	ServicePayment  = "PAYMENT"
	ServiceStorage  = "STORAGE"
	ServiceAPI      = "API"
	ServiceQueue    = "QUEUE"
)

// Moderation queue statuses.
const (
	ModerationPending  = "PENDING"
	ModerationApproved = "APPROVED"
	ModerationRejected = "REJECTED"
	ModerationFlagged  = "FLAGGED"
	ModerationSpam     = "SPAM"
)

// Moderated content types.
const (
	ContentUserProfile   = "USER_PROFILE"
	ContentProduct       = "PRODUCT"
	ContentReview        = "REVIEW"
	ContentComment       = "COMMENT"
	ContentImage         = "IMAGE"
	ContentRecipe        = "RECIPE"
	ContentAdvertisement = "ADVERTISEMENT"
)

// User activity types (append-only activity log).
const (
	ActivityLogin          = "LOGIN"
	ActivityLogout         = "LOGOUT"
	ActivityProfileUpdate  = "PROFILE_UPDATE"
	ActivityPasswordChange = "PASSWORD_CHANGE"
	ActivityOrderPlaced    = "ORDER_PLACED"
	ActivityProductCreated = "PRODUCT_CREATED"
	ActivityReviewPosted   = "REVIEW_POSTED"
	ActivityPaymentMade    = "PAYMENT_MADE"
	ActivitySupportTicket  = "SUPPORT_TICKET"
	ActivityViolation      = "VIOLATION"
)

// Security event types and severities.
const (
	SecuritySuspiciousLogin  = "SUSPICIOUS_LOGIN"
	SecurityMultipleFailures = "MULTIPLE_FAILURES"
	SecurityPasswordReset    = "PASSWORD_RESET"
	SecurityAccountLocked    = "ACCOUNT_LOCKED"
	SecurityUnusualActivity  = "UNUSUAL_ACTIVITY"
	SecurityDataBreach       = "DATA_BREACH"
	SecurityAdminAction      = "ADMIN_ACTION"
)

const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Admin action types (audit trail).
const (
	ActionUserCreate        = "USER_CREATE"
	ActionUserUpdate        = "USER_UPDATE"
	ActionUserDelete        = "USER_DELETE"
	ActionUserVerify        = "USER_VERIFY"
	ActionUserSuspend       = "USER_SUSPEND"
	ActionSettingChange     = "SETTING_CHANGE"
	ActionContentModerate   = "CONTENT_MODERATE"
	ActionSystemMaintenance = "SYSTEM_MAINTENANCE"
	ActionReportGenerate    = "REPORT_GENERATE"
	ActionPolicyUpdate      = "POLICY_UPDATE"
)

// Blockchain transaction statuses. The values are recorded verbatim from
// the external chain client; nothing here verifies them.
const (
	TxPending   = "pending"
	TxConfirmed = "confirmed"
	TxFailed    = "failed"
	TxReverted  = "reverted"
)

// Supply chain event types.
const (
	EventHarvest   = "harvest"
	EventProcess   = "process"
	EventPackage   = "package"
	EventStore     = "store"
	EventTransport = "transport"
	EventInspect   = "inspect"
	EventCertify   = "certify"
	EventDeliver   = "deliver"
	EventPurchase  = "purchase"
)

// Supply chain event statuses.
const (
	EventInitiated  = "initiated"
	EventInProgress = "in_progress"
	EventCompleted  = "completed"
	EventVerified   = "verified"
)

// Farm certification types.
const (
	CertOrganic     = "organic"
	CertFairTrade   = "fair_trade"
	CertRainforest  = "rainforest"
	CertGlobalGap   = "global_gap"
	CertISO22000    = "iso_22000"
	CertHACCP       = "haccp"
)

// Warehouse statuses and types.
const (
	WarehouseActive      = "active"
	WarehouseMaintenance = "maintenance"
	WarehouseInactive    = "inactive"
)

const (
	WarehouseTypeDry     = "dry"
	WarehouseTypeCold    = "cold"
	WarehouseTypeFrozen  = "frozen"
	WarehouseTypeOrganic = "organic"
	WarehouseTypeHazmat  = "hazmat"
)

// Warehouse zone types.
const (
	ZoneReceiving  = "receiving"
	ZoneStorage    = "storage"
	ZoneCold       = "cold"
	ZoneQuarantine = "quarantine"
	ZoneDispatch   = "dispatch"
)

// Inventory quality statuses.
const (
	QualityExcellent = "excellent"
	QualityGood      = "good"
	QualityFair      = "fair"
	QualityPoor      = "poor"
	QualityDamaged   = "damaged"
	QualityExpired   = "expired"
)

// Inventory movement types.
const (
	MovementInbound    = "inbound"
	MovementOutbound   = "outbound"
	MovementTransfer   = "transfer"
	MovementAdjustment = "adjustment"
	MovementReturn     = "return"
)

// Order statuses (thin marketplace slice feeding analytics).
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)
