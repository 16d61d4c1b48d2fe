package api

import (
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

// Serializer plugs sonic in as echo's JSON codec.
type Serializer struct{}

func NewSerializer() *Serializer {
	return &Serializer{}
}

func (s *Serializer) Serialize(c echo.Context, i interface{}, indent string) error {
	var (
		data []byte
		err  error
	)
	if indent != "" {
		data, err = sonic.MarshalIndent(i, "", indent)
	} else {
		data, err = sonic.Marshal(i)
	}
	if err != nil {
		return err
	}

	_, err = c.Response().Write(data)
	return err
}

func (s *Serializer) Deserialize(c echo.Context, i interface{}) error {
	err := sonic.ConfigDefault.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err)).SetInternal(err)
	}
	return nil
}
