package api

import (
	"fmt"
	"strings"

	"github.com/fulldump/handlerdb/registry"
	"github.com/fulldump/handlerdb/utils"
)

func parseField(name string) (registry.Field, error) {
	f, err := registry.ParseField(name)
	if err != nil {
		return f, fmt.Errorf("%w (valid fields: %s)", err, strings.Join(utils.GetKeys(registry.FieldsByName), ", "))
	}
	return f, nil
}
