package models

// ConnectionProfile is a stored database connection selectable as the default
// connection used at startup.
type ConnectionProfile struct {
	Type            string `gorm:"column:type;primaryKey" json:"type"`
	URL             string `gorm:"column:url;not null" json:"url"`
	Username        string `gorm:"column:username;not null" json:"username"`
	Password        string `gorm:"column:password;not null" json:"-"`
	DriverClassName string `gorm:"column:driverclassname" json:"driver_class_name"`
	IsDefault       bool   `gorm:"column:isdefault;not null;default:false" json:"is_default"`
}

// TableName specifies the table name for GORM
func (ConnectionProfile) TableName() string {
	return "info"
}
