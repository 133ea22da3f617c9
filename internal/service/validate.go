package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误里用field标签里的名字，和接口字段名保持一致
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("field")
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct 把validator的错误翻译成第一个出错字段的ValidationError
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return invalid(fe.Field(), reason(fe))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "max":
		return fmt.Sprintf("长度不能超过%s", fe.Param())
	case "min":
		return fmt.Sprintf("不能小于%s", fe.Param())
	case "url", "http_url":
		return "不是合法的链接"
	case "oneof":
		return "取值必须是 " + strings.ReplaceAll(fe.Param(), " ", "/")
	}
	return "不合法(" + fe.Tag() + ")"
}
