package models

import (
	"time"

	"github.com/dms/backend/internal/domain/travel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TripCategoryModel is the persistence model for trip categories.
type TripCategoryModel struct {
	BaseModel
	Name          string                   `gorm:"type:varchar(100);not null;uniqueIndex"`
	Mode          travel.TransportMode     `gorm:"type:varchar(20);not null"`
	Accommodation travel.AccommodationType `gorm:"type:varchar(20);not null"`
	Allowances    []AllowanceModel         `gorm:"foreignKey:CategoryID"`
}

// TableName returns the table name for TripCategoryModel.
func (TripCategoryModel) TableName() string {
	return "trip_categories"
}

// ToDomain converts the model to a domain TripCategory.
func (m *TripCategoryModel) ToDomain() *travel.TripCategory {
	category := &travel.TripCategory{
		BaseEntity:    m.BaseModel.ToDomain(),
		Name:          m.Name,
		Mode:          m.Mode,
		Accommodation: m.Accommodation,
	}
	for i := range m.Allowances {
		category.Allowances = append(category.Allowances, m.Allowances[i].ToDomain())
	}
	return category
}

// TripCategoryModelFromDomain builds a persistence model from a domain
// TripCategory. Attached allowances are persisted with the category's ID.
func TripCategoryModelFromDomain(category *travel.TripCategory) *TripCategoryModel {
	model := &TripCategoryModel{
		Name:          category.Name,
		Mode:          category.Mode,
		Accommodation: category.Accommodation,
	}
	model.FromDomainBaseEntity(category.BaseEntity)
	for _, allowance := range category.Allowances {
		am := AllowanceModelFromDomain(allowance)
		am.CategoryID = &category.ID
		model.Allowances = append(model.Allowances, *am)
	}
	return model
}

// AllowanceModel is the persistence model for allowance rules.
type AllowanceModel struct {
	BaseModel
	CategoryID        *uuid.UUID            `gorm:"type:uuid;index"`
	Name              string                `gorm:"type:varchar(200);not null"`
	Label             travel.AllowanceLabel `gorm:"type:varchar(50);index"`
	ParentID          *uuid.UUID            `gorm:"type:uuid"`
	DepartureCityID   uuid.UUID             `gorm:"type:uuid;index:idx_allowance_city_pair"`
	DestinationCityID uuid.UUID             `gorm:"type:uuid;index:idx_allowance_city_pair"`
	PaymentBasis      travel.PaymentBasis   `gorm:"type:varchar(20);not null"`
	PaymentRoute      travel.PaymentRoute   `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for AllowanceModel.
func (AllowanceModel) TableName() string {
	return "allowances"
}

// ToDomain converts the model to a domain Allowance.
func (m *AllowanceModel) ToDomain() *travel.Allowance {
	return &travel.Allowance{
		BaseEntity:        m.BaseModel.ToDomain(),
		Name:              m.Name,
		Label:             m.Label,
		ParentID:          m.ParentID,
		DepartureCityID:   m.DepartureCityID,
		DestinationCityID: m.DestinationCityID,
		PaymentBasis:      m.PaymentBasis,
		PaymentRoute:      m.PaymentRoute,
	}
}

// AllowanceModelFromDomain builds a persistence model from a domain
// Allowance.
func AllowanceModelFromDomain(allowance *travel.Allowance) *AllowanceModel {
	model := &AllowanceModel{
		Name:              allowance.Name,
		Label:             allowance.Label,
		ParentID:          allowance.ParentID,
		DepartureCityID:   allowance.DepartureCityID,
		DestinationCityID: allowance.DestinationCityID,
		PaymentBasis:      allowance.PaymentBasis,
		PaymentRoute:      allowance.PaymentRoute,
	}
	model.FromDomainBaseEntity(allowance.BaseEntity)
	return model
}

// RemunerationModel is the persistence model for remuneration rates.
type RemunerationModel struct {
	BaseModel
	AllowanceID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_remuneration_lookup"`
	GradeLevelID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_remuneration_lookup"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'NGN'"`
	StartDate      *time.Time      `gorm:"index"`
	ExpirationDate *time.Time      `gorm:"index"`
}

// TableName returns the table name for RemunerationModel.
func (RemunerationModel) TableName() string {
	return "remunerations"
}

// ToDomain converts the model to a domain Remuneration.
func (m *RemunerationModel) ToDomain() *travel.Remuneration {
	rem := &travel.Remuneration{
		BaseEntity:   m.BaseModel.ToDomain(),
		AllowanceID:  m.AllowanceID,
		GradeLevelID: m.GradeLevelID,
		Amount:       m.Amount,
		Currency:     m.Currency,
	}
	if m.StartDate != nil {
		rem.StartDate = *m.StartDate
	}
	if m.ExpirationDate != nil {
		rem.ExpirationDate = *m.ExpirationDate
	}
	return rem
}

// RemunerationModelFromDomain builds a persistence model from a domain
// Remuneration. Zero dates persist as NULL for open-ended validity.
func RemunerationModelFromDomain(remuneration *travel.Remuneration) *RemunerationModel {
	model := &RemunerationModel{
		AllowanceID:  remuneration.AllowanceID,
		GradeLevelID: remuneration.GradeLevelID,
		Amount:       remuneration.Amount,
		Currency:     remuneration.Currency,
	}
	model.FromDomainBaseEntity(remuneration.BaseEntity)
	if !remuneration.StartDate.IsZero() {
		start := remuneration.StartDate
		model.StartDate = &start
	}
	if !remuneration.ExpirationDate.IsZero() {
		expiration := remuneration.ExpirationDate
		model.ExpirationDate = &expiration
	}
	return model
}

// TripModel is the persistence model for the Trip aggregate root.
type TripModel struct {
	AggregateModel
	StaffID           uuid.UUID          `gorm:"type:uuid;not null;index"`
	GradeLevelID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	DepartureCityID   uuid.UUID          `gorm:"type:uuid;not null"`
	DestinationCityID uuid.UUID          `gorm:"type:uuid;not null"`
	AirportID         uuid.UUID          `gorm:"type:uuid"`
	CategoryID        uuid.UUID          `gorm:"type:uuid;index"`
	Category          *TripCategoryModel `gorm:"foreignKey:CategoryID"`
	PerDiemCategoryID uuid.UUID          `gorm:"type:uuid"`
	Route             travel.RouteMode   `gorm:"type:varchar(20);not null"`
	DepartureDate     time.Time          `gorm:"type:date;not null;index"`
	ReturnDate        time.Time          `gorm:"type:date;not null"`
	DistanceKM        decimal.Decimal    `gorm:"type:decimal(10,2);not null;default:0"`
	Purpose           string             `gorm:"type:text"`
	Status            travel.TripStatus  `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
}

// TableName returns the table name for TripModel.
func (TripModel) TableName() string {
	return "trips"
}

// ToDomain converts the model to a domain Trip.
func (m *TripModel) ToDomain() *travel.Trip {
	trip := &travel.Trip{
		StaffID:           m.StaffID,
		GradeLevelID:      m.GradeLevelID,
		DepartureCityID:   m.DepartureCityID,
		DestinationCityID: m.DestinationCityID,
		AirportID:         m.AirportID,
		CategoryID:        m.CategoryID,
		PerDiemCategoryID: m.PerDiemCategoryID,
		Route:             m.Route,
		DepartureDate:     m.DepartureDate,
		ReturnDate:        m.ReturnDate,
		DistanceKM:        m.DistanceKM,
		Purpose:           m.Purpose,
		Status:            m.Status,
	}
	m.PopulateAggregateRoot(&trip.BaseAggregateRoot)
	if m.Category != nil {
		trip.Category = m.Category.ToDomain()
	}
	return trip
}

// TripModelFromDomain builds a persistence model from a domain Trip. The
// category association is stored by ID only.
func TripModelFromDomain(trip *travel.Trip) *TripModel {
	model := &TripModel{
		StaffID:           trip.StaffID,
		GradeLevelID:      trip.GradeLevelID,
		DepartureCityID:   trip.DepartureCityID,
		DestinationCityID: trip.DestinationCityID,
		AirportID:         trip.AirportID,
		CategoryID:        trip.CategoryID,
		PerDiemCategoryID: trip.PerDiemCategoryID,
		Route:             trip.Route,
		DepartureDate:     trip.DepartureDate,
		ReturnDate:        trip.ReturnDate,
		DistanceKM:        trip.DistanceKM,
		Purpose:           trip.Purpose,
		Status:            trip.Status,
	}
	model.FromDomainAggregateRoot(trip.BaseAggregateRoot)
	return model
}

// ExpenseModel is the persistence model for derived expenses.
type ExpenseModel struct {
	BaseModel
	Identifier           string             `gorm:"type:varchar(64);not null;uniqueIndex"`
	TripID               uuid.UUID          `gorm:"type:uuid;not null;index"`
	ParentID             *uuid.UUID         `gorm:"type:uuid"`
	AllowanceID          uuid.UUID          `gorm:"type:uuid;not null"`
	RemunerationID       uuid.UUID          `gorm:"type:uuid;not null"`
	Type                 travel.ExpenseType `gorm:"type:varchar(30);not null"`
	StartDate            time.Time          `gorm:"type:date;not null"`
	EndDate              time.Time          `gorm:"type:date;not null"`
	NoOfDays             int                `gorm:"not null;default:0"`
	TotalDistanceCovered decimal.Decimal    `gorm:"type:decimal(10,2);not null;default:0"`
	UnitPrice            decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	TotalAmountSpent     decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Description          string             `gorm:"type:text"`
	Position             int                `gorm:"not null;default:0;index"`
}

// TableName returns the table name for ExpenseModel.
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the model to a domain Expense.
func (m *ExpenseModel) ToDomain() *travel.Expense {
	return &travel.Expense{
		BaseEntity:           m.BaseModel.ToDomain(),
		Identifier:           m.Identifier,
		TripID:               m.TripID,
		ParentID:             m.ParentID,
		AllowanceID:          m.AllowanceID,
		RemunerationID:       m.RemunerationID,
		Type:                 m.Type,
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
		NoOfDays:             m.NoOfDays,
		TotalDistanceCovered: m.TotalDistanceCovered,
		UnitPrice:            m.UnitPrice,
		TotalAmountSpent:     m.TotalAmountSpent,
		Description:          m.Description,
	}
}

// ExpenseModelFromDomain builds a persistence model from a domain Expense.
// Position preserves the derivation order within the trip.
func ExpenseModelFromDomain(expense *travel.Expense, position int) *ExpenseModel {
	model := &ExpenseModel{
		Identifier:           expense.Identifier,
		TripID:               expense.TripID,
		ParentID:             expense.ParentID,
		AllowanceID:          expense.AllowanceID,
		RemunerationID:       expense.RemunerationID,
		Type:                 expense.Type,
		StartDate:            expense.StartDate,
		EndDate:              expense.EndDate,
		NoOfDays:             expense.NoOfDays,
		TotalDistanceCovered: expense.TotalDistanceCovered,
		UnitPrice:            expense.UnitPrice,
		TotalAmountSpent:     expense.TotalAmountSpent,
		Description:          expense.Description,
		Position:             position,
	}
	model.FromDomainBaseEntity(expense.BaseEntity)
	return model
}
