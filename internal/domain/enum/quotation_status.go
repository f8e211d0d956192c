package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// QuotationStatus represents the status of a quotation. Only an accepted
// quotation can be converted into a ticket; Converted marks that it has been.
type QuotationStatus int

const (
	QuotationStatusDraft     QuotationStatus = 0
	QuotationStatusSent      QuotationStatus = 1
	QuotationStatusAccepted  QuotationStatus = 2
	QuotationStatusRejected  QuotationStatus = 3
	QuotationStatusConverted QuotationStatus = 4
)

var quotationStatusNames = [...]string{"Draft", "Sent", "Accepted", "Rejected", "Converted"}

func (s QuotationStatus) String() string {
	if s < 0 || int(s) >= len(quotationStatusNames) {
		return "Draft"
	}
	return quotationStatusNames[s]
}

func (s QuotationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *QuotationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = QuotationStatus(i)
		return nil
	}
	for i, n := range quotationStatusNames {
		if n == str {
			*s = QuotationStatus(i)
			return nil
		}
	}
	return fmt.Errorf("unknown quotation status %q", str)
}

func (s QuotationStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *QuotationStatus) Scan(value interface{}) error {
	if value == nil {
		*s = QuotationStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = QuotationStatus(v)
	case int:
		*s = QuotationStatus(v)
	}
	return nil
}
