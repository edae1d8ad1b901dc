package daraja

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CallbackEnvelope mirrors the provider's asynchronous result callback body.
type CallbackEnvelope struct {
	Body struct {
		StkCallback StkCallback `json:"stkCallback"`
	} `json:"Body"`
}

// StkCallback carries the outcome of one push request. ResultCode zero means
// the customer paid; anything else is a failure or cancellation.
type StkCallback struct {
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResultCode        int    `json:"ResultCode"`
	ResultDesc        string `json:"ResultDesc"`
	CallbackMetadata  struct {
		Item []MetadataItem `json:"Item"`
	} `json:"CallbackMetadata"`
}

// MetadataItem is a loosely typed name/value pair; the provider sends amounts
// and phone numbers as JSON numbers and receipts as strings.
type MetadataItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value"`
}

// PaymentDetails is the settlement data extracted from callback metadata.
type PaymentDetails struct {
	AmountKES     int64
	ReceiptNumber string
	PhoneNumber   string
}

// Succeeded reports whether the callback signals a settled payment.
func (c StkCallback) Succeeded() bool {
	return c.ResultCode == 0
}

// PaymentDetails extracts the amount, receipt number and payer phone from the
// callback metadata. All three fields are required on a success callback.
func (c StkCallback) PaymentDetails() (*PaymentDetails, error) {
	var details PaymentDetails
	for _, item := range c.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			v, err := itemNumber(item.Value)
			if err != nil {
				return nil, fmt.Errorf("daraja: callback amount: %w", err)
			}
			details.AmountKES = v
		case "MpesaReceiptNumber":
			details.ReceiptNumber = itemString(item.Value)
		case "PhoneNumber":
			details.PhoneNumber = itemString(item.Value)
		}
	}
	if details.AmountKES <= 0 || details.ReceiptNumber == "" || details.PhoneNumber == "" {
		return nil, fmt.Errorf("daraja: callback metadata incomplete (amount=%d receipt=%q phone=%q)",
			details.AmountKES, details.ReceiptNumber, details.PhoneNumber)
	}
	return &details, nil
}

func itemNumber(raw json.RawMessage) (int64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err2 := json.Unmarshal(raw, &s); err2 != nil {
			return 0, err
		}
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	}
	return int64(math.Round(f)), nil
}

func itemString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatInt(int64(f), 10)
	}
	return ""
}
