package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// validate 全局校验器（validator.Validate并发安全，缓存结构体元数据）
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息使用json字段名（authorId而不是AuthorID）
	v.RegisterTagNameFunc(jsonName)
	// uuid_any: 与路径参数相同的UUID规则，大小写均可
	_ = v.RegisterValidation("uuid_any", func(fl validator.FieldLevel) bool {
		_, err := ParseUUID(fl.Field().String())
		return err == nil
	})
	return v
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Decode 解析JSON请求体并校验
// 1. 请求体为空、JSON语法错误或不是对象 → 40001
// 2. 字段类型不匹配（如rating传字符串）与校验规则不满足 → 40002
//    details列出每一个不合法字段，同一字段只报告一次
// dst必须是结构体指针，字段按json tag精确匹配
func Decode(body []byte, dst interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return apperrors.ErrBindError
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return apperrors.ErrBindError
	}

	// 逐字段解码，类型错误的字段保持零值并记录下来
	rv := reflect.ValueOf(dst).Elem()
	rt := rv.Type()
	var details []string
	mistyped := make(map[string]bool)
	for i := 0; i < rt.NumField(); i++ {
		name := jsonName(rt.Field(i))
		value, ok := raw[name]
		if name == "" || !ok {
			continue
		}

		field := rv.Field(i)
		if err := json.Unmarshal(value, field.Addr().Interface()); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				return apperrors.ErrBindError
			}
			field.Set(reflect.Zero(field.Type()))
			mistyped[name] = true
			details = append(details, typeMessage(name, typeErr.Type))
		}
	}

	details = append(details, fieldDetails(dst, mistyped)...)
	if len(details) > 0 {
		return apperrors.ErrValidation.WithDetails(details...)
	}
	return nil
}

// Validate 校验结构体，汇总所有字段错误
func Validate(s interface{}) error {
	if details := fieldDetails(s, nil); len(details) > 0 {
		return apperrors.ErrValidation.WithDetails(details...)
	}
	return nil
}

// fieldDetails 运行校验规则，跳过已报告类型错误的字段
func fieldDetails(s interface{}, skip map[string]bool) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if skip[fe.Field()] {
			continue
		}
		details = append(details, fieldMessage(fe))
	}
	return details
}

// ParseUUID 校验路径参数是否为UUID，返回规范的小写形式
func ParseUUID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil || len(raw) != 36 {
		return "", apperrors.ErrInvalidUUID
	}
	return id.String(), nil
}

// fieldMessage 生成单个字段的错误描述
func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s should not be empty", field)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be longer than or equal to %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be shorter than or equal to %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not be greater than %s", field, fe.Param())
	case "uuid", "uuid_any":
		return fmt.Sprintf("%s must be a UUID", field)
	case "email":
		return fmt.Sprintf("%s must be an email", field)
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

// typeMessage 生成类型不匹配的错误描述
func typeMessage(field string, t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%s must be an integer number", field)
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%s must be a number", field)
	case reflect.String:
		return fmt.Sprintf("%s must be a string", field)
	default:
		return fmt.Sprintf("%s has an invalid type", field)
	}
}
