package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"hors-serie-api/dto"
)

var registerValidatorOnce sync.Once

// RegisterValidator hace que los errores de validación usen los nombres JSON de los campos
func RegisterValidator() {
	registerValidatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// writeBindingError responde 400 con los errores por campo del body o la query
func writeBindingError(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "validation_error",
		Message: message,
		Errors:  fieldErrors(err),
	})
}

// writeNotFound responde 404
func writeNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, dto.ErrorResponse{
		Error:   "not_found",
		Message: message,
	})
}

// writeInternalError loguea el error y responde 500 con un mensaje genérico
func writeInternalError(c *gin.Context, log logrus.FieldLogger, message string, err error) {
	_ = c.Error(err)
	log.WithError(err).WithField("path", c.Request.URL.Path).Error(message)
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "internal_error",
		Message: message,
	})
}

// fieldErrors traduce los errores del binding de gin a mensajes por campo
func fieldErrors(err error) []dto.FieldError {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		out := make([]dto.FieldError, 0, len(validationErrors))
		for _, fe := range validationErrors {
			out = append(out, dto.FieldError{
				Field:   fieldPath(fe),
				Message: validationMessage(fe),
			})
		}
		return out
	}

	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) {
		return []dto.FieldError{{
			Field:   typeError.Field,
			Message: fmt.Sprintf("must be of type %s", jsonTypeName(typeError.Type)),
		}}
	}

	if errors.Is(err, io.EOF) {
		return []dto.FieldError{{Field: "body", Message: "request body is required"}}
	}

	var syntaxError *json.SyntaxError
	if errors.As(err, &syntaxError) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []dto.FieldError{{Field: "body", Message: "malformed JSON"}}
	}

	return []dto.FieldError{{Field: "body", Message: err.Error()}}
}

// fieldPath devuelve la ruta JSON del campo sin el nombre del struct raíz
func fieldPath(fe validator.FieldError) string {
	namespace := fe.Namespace()
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("must contain at least %s element(s)", fe.Param())
		case reflect.String:
			return fmt.Sprintf("must be at least %s character(s) long", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "latitude":
		return "must be a valid latitude"
	case "longitude":
		return "must be a valid longitude"
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return t.String()
	}
}
