// @title                       Event Hall Booking API
// @version                     1.0
// @description                 Account, authentication and catalog API for an events-booking business.
// @BasePath                    /eventhall/api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

//go:generate swag init --dir ../../ --generalInfo cmd/server/main.go --output ../../docs

import "github.com/eventhall/booking-api/cmd/server/cmd"

func main() {
	cmd.Execute()
}
