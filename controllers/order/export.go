package orderControllers

import (
	"fmt"
	"net/http"

	"github.com/abubakar8866/Bookify-Online-Book-Shopping/apperrors"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/models"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// ExportInvoiceHandler writes the order as an xlsx invoice. Only delivered
// orders can be printed.
func ExportInvoiceHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseID(c, "orderID")
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		order, err := getOrder(db, orderID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if order.OrderStatus != models.OrderStatusDelivered {
			apperrors.Respond(c, apperrors.InvalidState("only delivered orders can be printed"))
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Invoice")
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		addRow := func(values ...string) {
			row := sheet.AddRow()
			for _, v := range values {
				row.AddCell().SetString(v)
			}
		}

		addRow("Order ID", fmt.Sprintf("%d", order.ID))
		addRow("Customer", order.UserName)
		addRow("Address", order.Address)
		addRow("Phone", order.PhoneNumber)
		addRow("Order Mode", order.OrderMode)
		addRow("Delivery Date", order.DeliveryDate.Format("2006-01-02"))
		addRow()
		addRow("Book", "Author", "Quantity", "Unit Price", "Subtotal")
		for _, item := range order.Items {
			addRow(item.BookName, item.AuthorName,
				fmt.Sprintf("%d", item.Quantity),
				item.UnitPrice.StringFixed(2),
				item.Subtotal.StringFixed(2))
		}
		addRow()
		addRow("Total", "", "", "", order.Total.StringFixed(2))

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%d.xlsx", order.ID))
		c.Status(http.StatusOK)
		if err := file.Write(c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
}
