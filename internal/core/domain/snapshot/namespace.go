package snapshot

import (
	"fmt"
	"strings"
)

// Namespace scopes a preference store and its data directory to one application
type Namespace struct {
	Company string
	Product string
}

// NewNamespace creates a Namespace with validation
func NewNamespace(company, product string) (Namespace, error) {
	if strings.TrimSpace(company) == "" {
		return Namespace{}, fmt.Errorf("company name cannot be empty")
	}
	if strings.TrimSpace(product) == "" {
		return Namespace{}, fmt.Errorf("product name cannot be empty")
	}
	return Namespace{Company: company, Product: product}, nil
}

// String implements the Stringer interface
func (n Namespace) String() string {
	return n.Company + "/" + n.Product
}
