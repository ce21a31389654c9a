package utils

import (
	"github.com/go-json-experiment/json"
)

// Remarshal converts input into output through its JSON form.
func Remarshal(input interface{}, output interface{}) error {
	b, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, output)
}
