package models

type Campus struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
