package models

import "time"

type Place struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p Place) OwnerID() string { return p.UserID }

type PlacePatch struct {
	Name        *string
	Description *string
	Address     *string
	Latitude    *float64
	Longitude   *float64
}

func (p PlacePatch) Apply(pl *Place) {
	if p.Name != nil {
		pl.Name = *p.Name
	}
	if p.Description != nil {
		pl.Description = *p.Description
	}
	if p.Address != nil {
		pl.Address = *p.Address
	}
	if p.Latitude != nil {
		pl.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		pl.Longitude = p.Longitude
	}
}
