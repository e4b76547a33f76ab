package order

import "gorm.io/gorm"

func RunMigration(db *gorm.DB) error {
	return db.AutoMigrate(&Order{}, &OrderItem{}, &OrderDetail{})
}
