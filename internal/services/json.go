package services

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func jsonMarshal(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
