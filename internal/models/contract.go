// Package models defines the domain types for Pactum.
package models

import "time"

// DefaultContractType is reported for every document.
const DefaultContractType = "Agreement"

// Clause is a labeled (or unlabeled) unit of text within a Section.
type Clause struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Index int    `json:"index"`
}

// Section is a heading plus the clauses that follow it.
// Number is nil when the heading carried no numeral.
type Section struct {
	Title   string   `json:"title"`
	Number  *string  `json:"number"`
	Clauses []Clause `json:"clauses"`
}

// Document is the structured result of parsing one contract.
type Document struct {
	Title         string    `json:"title"`
	ContractType  string    `json:"contract_type"`
	EffectiveDate *string   `json:"effective_date"`
	Sections      []Section `json:"sections"`
}

// Stats holds counts for a parsed document.
type Stats struct {
	Sections int `json:"sections"`
	Clauses  int `json:"clauses"`
}

// Stats returns section and clause counts.
func (d *Document) Stats() Stats {
	s := Stats{Sections: len(d.Sections)}
	for _, sec := range d.Sections {
		s.Clauses += len(sec.Clauses)
	}
	return s
}

// DocumentMetadata is a lightweight representation of a library file.
type DocumentMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
