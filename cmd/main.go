package main

import (
	"github.com/foodcourt/orders/internal/app"
	"github.com/foodcourt/orders/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
