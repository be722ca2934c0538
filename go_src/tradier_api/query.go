package tradier_api

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// paramsToQueryValues converts a struct with `url` tags to url.Values.
// Zero values are skipped for fields tagged omitempty. Types implementing
// fmt.Stringer (decimal.Decimal) are encoded with String.
func paramsToQueryValues(paramsStruct interface{}) (url.Values, error) {
	values := url.Values{}
	if paramsStruct == nil {
		return values, nil
	}

	v := reflect.ValueOf(paramsStruct)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return values, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("paramsToQueryValues: expected a struct or pointer to struct, got %T", paramsStruct)
	}

	typ := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := typ.Field(i)
		fieldValue := v.Field(i)

		tag := field.Tag.Get("url")
		if tag == "" || tag == "-" {
			continue
		}
		parts := strings.Split(tag, ",")
		paramName := parts[0]
		omitEmpty := len(parts) > 1 && parts[1] == "omitempty"

		if fieldValue.Kind() == reflect.Ptr {
			if fieldValue.IsNil() {
				continue
			}
			fieldValue = fieldValue.Elem()
		}
		if omitEmpty && fieldValue.IsZero() {
			continue
		}

		if s, ok := fieldValue.Interface().(fmt.Stringer); ok {
			values.Set(paramName, s.String())
			continue
		}

		switch fieldValue.Kind() {
		case reflect.String:
			values.Set(paramName, fieldValue.String())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			values.Set(paramName, strconv.FormatInt(fieldValue.Int(), 10))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			values.Set(paramName, strconv.FormatUint(fieldValue.Uint(), 10))
		case reflect.Float32, reflect.Float64:
			values.Set(paramName, strconv.FormatFloat(fieldValue.Float(), 'f', -1, 64))
		case reflect.Bool:
			values.Set(paramName, strconv.FormatBool(fieldValue.Bool()))
		case reflect.Slice:
			if fieldValue.Type().Elem().Kind() != reflect.String {
				continue
			}
			strSlice := make([]string, 0, fieldValue.Len())
			for j := 0; j < fieldValue.Len(); j++ {
				strSlice = append(strSlice, fieldValue.Index(j).String())
			}
			values.Set(paramName, strings.Join(strSlice, ","))
		}
	}
	return values, nil
}
