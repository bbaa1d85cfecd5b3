package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// DataMap is the generic row representation used by the entity tables
// and for node attributes. Table rows always carry a "pk" key.
type DataMap map[string]interface{}

// PK returns the row's primary key or 0 if the row has none.
// JSON decoding produces float64 for numbers, so both forms are handled.
func (d DataMap) PK() int {
	value, ok := d["pk"]
	if !ok {
		return 0
	}
	switch pk := value.(type) {
	case int:
		return pk
	case int64:
		return int(pk)
	case float64:
		return int(pk)
	case string:
		number, err := strconv.Atoi(pk)
		if err != nil {
			return 0
		}
		return number
	}
	return 0
}

func (d DataMap) StripEmpty() DataMap {
	strippedMap := DataMap{}
	for key, value := range d {
		if fmt.Sprintf("%v", value) != "" && key != "gorilla.csrf.Token" {
			strippedMap[key] = value
		}
	}
	return strippedMap
}

func (d *DataMap) GetStringByKey(key string) string {
	if value, ok := (*d)[key]; ok && value != nil {
		return fmt.Sprintf("%v", value)
	}
	return ""
}

func (d *DataMap) GetIntByKey(key string) int {
	if value, ok := (*d)[key]; ok {
		switch number := value.(type) {
		case int:
			return number
		case float64:
			return int(number)
		}
	}
	return 0
}

func (d *DataMap) GetTimeByKey(key string) string {
	if value, ok := (*d)[key]; ok {
		if date, ok := value.(time.Time); ok {
			return date.Format("2006-01-02 15:04:05")
		}
	}
	return "invalid time"
}

func (d *DataMap) Has(key string) bool {
	_, ok := (*d)[key]
	return ok
}

func (d DataMap) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *DataMap) Scan(value interface{}) error {
	if value == nil {
		*d = DataMap{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, d)
}
