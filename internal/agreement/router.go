package agreement

import (
	"nfticket/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAgreementRoutes configures all agreement-related routes. Every route
// requires authentication; role checks happen per agreement inside the domain
// operations, not here.
func SetupAgreementRoutes(rg *gin.RouterGroup, controller *Controller) {
	agreements := rg.Group("/agreements")
	agreements.Use(middleware.JWTAuth())
	{
		agreements.POST("", controller.CreateAgreement) // POST   /api/v1/agreements
		agreements.GET("/:id", controller.GetAgreement) // GET    /api/v1/agreements/:id

		// Term negotiation (entertainer only, enforced in the domain)
		agreements.PUT("/:id/terms/event-date-time", controller.SetEventDateTime)
		agreements.PUT("/:id/terms/sales-start", controller.SetSalesStart)
		agreements.PUT("/:id/terms/sales-end", controller.SetSalesEnd)
		agreements.PUT("/:id/terms/default-ticket-price", controller.SetDefaultTicketPrice)
		agreements.PUT("/:id/terms/venue-fee-basis-points", controller.SetVenueFeeBasisPoints)

		// Section management
		agreements.POST("/:id/sections", controller.AddSection)
		agreements.GET("/:id/sections", controller.ListSections)
		agreements.GET("/:id/sections/:key", controller.GetSection)
		agreements.PUT("/:id/sections/:key/ticket-price", controller.SetSectionPrice)
		agreements.PUT("/:id/sections/:key/capacity", controller.SetSectionCapacity)
		agreements.DELETE("/:id/sections/:key", controller.RemoveSection)

		// Signing and collection setup
		agreements.POST("/:id/sign", controller.SignContract)
		agreements.POST("/:id/nft", controller.CreateNft)

		// Ticketing
		agreements.POST("/:id/tickets", controller.PurchaseTicket)
		agreements.GET("/:id/tickets/:serial", controller.GetTicket)
		agreements.POST("/:id/tickets/:serial/scan", controller.ScanTicket)

		// Money
		agreements.POST("/:id/payouts", controller.CollectPayout)
		agreements.POST("/:id/deposits", controller.Deposit)
		agreements.GET("/:id/balance", controller.GetBalance)
		agreements.GET("/:id/ledger", controller.ListLedger)
	}
}
