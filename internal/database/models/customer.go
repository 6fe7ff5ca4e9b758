package models

type CustomerPlan string

const (
	PlanBasic      CustomerPlan = "Basic"
	PlanPro        CustomerPlan = "Pro"
	PlanEnterprise CustomerPlan = "Enterprise"
)

// Customer is the tenant. New registrants are bucketed into the customer whose
// Domain matches their email domain.
type Customer struct {
	Base
	Name          string       `gorm:"not null" json:"name"`
	Industry      *string      `json:"industry,omitempty"`
	ContactEmail  string       `gorm:"not null" json:"contact_email"`
	Phone         *string      `json:"phone,omitempty"`
	Address       *string      `json:"address,omitempty"`
	Plan          CustomerPlan `gorm:"type:varchar(20);default:'Basic'" json:"plan"`
	BillingStatus string       `gorm:"type:varchar(20);default:'Active'" json:"billing_status"`
	MaxUsers      *int         `json:"max_users,omitempty"`
	LogoURL       *string      `json:"logo_url,omitempty"`
	TimeZone      string       `gorm:"not null;default:'UTC'" json:"time_zone"`
	Domain        *string      `gorm:"uniqueIndex" json:"domain,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}
