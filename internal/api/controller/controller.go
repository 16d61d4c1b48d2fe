package controller

import (
	"github.com/Bushaija/studious-potato-sub008/internal/service/generator"
)

type Controller struct {
	service *generator.Service
}

func NewController(service *generator.Service) *Controller {
	return &Controller{service: service}
}
