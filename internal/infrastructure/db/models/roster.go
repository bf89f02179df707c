package models

import "time"

type Account struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:150;not null;uniqueIndex:accounts_username_key"`
	Email        string `gorm:"size:320;not null;uniqueIndex:accounts_email_key"`
	PasswordHash []byte `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Account) TableName() string {
	return "accounts"
}

type Guardian struct {
	ID          uint     `gorm:"primaryKey"`
	AccountID   uint     `gorm:"not null;uniqueIndex:guardians_account_id_key"`
	Account     *Account `gorm:"constraint:OnDelete:CASCADE"`
	Phone       int      `gorm:"not null;uniqueIndex:guardians_phone_key;check:guardians_phone_check,phone BETWEEN 100000000 AND 999999999"`
	Contact     string   `gorm:"size:320;not null;uniqueIndex:guardians_contact_key"`
	DisplayName string   `gorm:"size:255;not null"`
	ImportRunID *string  `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Guardian) TableName() string {
	return "guardians"
}

type Student struct {
	ID          uint      `gorm:"primaryKey"`
	GuardianID  uint      `gorm:"not null;uniqueIndex:students_guardian_name_key,priority:1"`
	Guardian    *Guardian `gorm:"constraint:OnDelete:CASCADE"`
	FirstName   string    `gorm:"size:150;not null;uniqueIndex:students_guardian_name_key,priority:2"`
	LastName    string    `gorm:"size:150;not null;uniqueIndex:students_guardian_name_key,priority:3"`
	Gender      string    `gorm:"type:char(1);not null;check:students_gender_check,gender IN ('M','F')"`
	Note        string    `gorm:"type:text;not null"`
	ImportRunID *string   `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Student) TableName() string {
	return "students"
}

type Group struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:150;not null;uniqueIndex:student_groups_name_key"`
	ImportRunID *string `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Group) TableName() string {
	return "student_groups"
}

type GroupMembership struct {
	GroupID   uint     `gorm:"primaryKey"`
	Group     *Group   `gorm:"constraint:OnDelete:CASCADE"`
	StudentID uint     `gorm:"primaryKey;index"`
	Student   *Student `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (GroupMembership) TableName() string {
	return "group_memberships"
}
