package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// CustomerKind enumerates the customer types the CRM knows about.
// CustomerOther covers every value outside the enumerated set.
type CustomerKind int

const (
	CustomerOther CustomerKind = iota
	CustomerClient
	CustomerProspect
	CustomerLead
	CustomerInactive
)

var customerKindNames = map[CustomerKind]string{
	CustomerClient:   "client",
	CustomerProspect: "prospect",
	CustomerLead:     "lead",
	CustomerInactive: "inactive",
	CustomerOther:    "other",
}

func (k CustomerKind) String() string {
	return customerKindNames[k]
}

// CustomerType is the closed form of the stored customer_type string.
// The raw value is kept so Other("enterprise") still round-trips.
type CustomerType struct {
	Kind CustomerKind
	Raw  string
}

// ParseCustomerType normalizes s case-insensitively. Anything that is not
// client, prospect, lead or inactive becomes Other with the raw value kept.
func ParseCustomerType(s string) CustomerType {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch norm {
	case "client":
		return CustomerType{Kind: CustomerClient, Raw: s}
	case "prospect":
		return CustomerType{Kind: CustomerProspect, Raw: s}
	case "lead":
		return CustomerType{Kind: CustomerLead, Raw: s}
	case "inactive":
		return CustomerType{Kind: CustomerInactive, Raw: s}
	}
	return CustomerType{Kind: CustomerOther, Raw: s}
}

// Other builds the catch-all variant for a raw value.
func Other(raw string) CustomerType {
	return CustomerType{Kind: CustomerOther, Raw: raw}
}

// Name returns the canonical lowercase name of the kind ("other" for Other).
func (c CustomerType) Name() string {
	return c.Kind.String()
}

// String returns the value as stored.
func (c CustomerType) String() string {
	if c.Raw != "" {
		return c.Raw
	}
	if c.Kind == CustomerOther {
		return ""
	}
	return c.Kind.String()
}

// Value implements driver.Valuer.
func (c CustomerType) Value() (driver.Value, error) {
	return c.String(), nil
}

// Scan implements sql.Scanner.
func (c *CustomerType) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = Other("")
	case string:
		*c = ParseCustomerType(v)
	case []byte:
		*c = ParseCustomerType(string(v))
	default:
		return fmt.Errorf("scan customer type: unsupported type %T", src)
	}
	return nil
}

func (c CustomerType) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *CustomerType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ParseCustomerType(s)
	return nil
}
