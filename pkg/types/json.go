package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString accepts either a JSON string or a JSON number
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// UnmarshalJSON accepts the amount as a string or a number, so {"amount":1} decodes to "1"
func (i *Intent) UnmarshalJSON(data []byte) error {
	type plain Intent
	aux := struct {
		*plain
		Amount FlexString `json:"amount"`
	}{plain: (*plain)(i), Amount: FlexString(i.Amount)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	i.Amount = string(aux.Amount)
	return nil
}
