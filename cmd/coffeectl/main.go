// Command coffeectl drives the back-office API from a terminal.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/beanline/coffee_backoffice/pkg/client"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	app := &cli.App{
		Name:  "coffeectl",
		Usage: "coffee shop back-office from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "API base URL",
				Value:   "http://localhost:8080",
				EnvVars: []string{"COFFEE_API_URL"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "staff bearer token (see the login command)",
				EnvVars: []string{"COFFEE_TOKEN"},
			},
		},
		Commands: []*cli.Command{
			loginCommand(),
			sellCommand(),
			refundCommand(),
			adjustCommand(),
			orderStatusCommand(),
			dashboardCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("coffeectl failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func apiClient(c *cli.Context) *client.Client {
	return client.New(c.String("server"), client.WithToken(c.String("token")))
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "log in and print a token for COFFEE_TOKEN",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"COFFEE_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			resp, err := apiClient(c).Login(c.Context, c.String("email"), c.String("password"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s\n", resp.Token)
			return nil
		},
	}
}

func sellCommand() *cli.Command {
	return &cli.Command{
		Name:  "sell",
		Usage: "ring up a sale",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "item", Usage: "productID:quantity[@unitPrice], repeatable", Required: true},
			&cli.StringFlag{Name: "payment", Usage: "cash, card or mixed", Value: string(domain.PaymentCash)},
			&cli.StringFlag{Name: "cash-received"},
			&cli.StringFlag{Name: "card-amount"},
			&cli.StringFlag{Name: "discount"},
			&cli.StringFlag{Name: "customer", Usage: "customer ID for loyalty points"},
			&cli.StringFlag{Name: "notes"},
		},
		Action: func(c *cli.Context) error {
			items, err := parseSaleItems(c.StringSlice("item"))
			if err != nil {
				return err
			}
			req := dto.CreatePOSTransactionRequest{
				Items:         items,
				PaymentMethod: domain.PaymentMethod(c.String("payment")),
				Notes:         c.String("notes"),
			}
			if req.CashReceived, err = optionalDecimal("cash-received", c.String("cash-received")); err != nil {
				return err
			}
			if req.CardAmount, err = optionalDecimal("card-amount", c.String("card-amount")); err != nil {
				return err
			}
			if req.Discount, err = optionalDecimal("discount", c.String("discount")); err != nil {
				return err
			}
			if customer := c.String("customer"); customer != "" {
				req.CustomerID = &customer
			}

			resp, err := apiClient(c).CreateTransaction(c.Context, req)
			if err != nil {
				return err
			}
			return printJSON(c, resp)
		},
	}
}

func refundCommand() *cli.Command {
	return &cli.Command{
		Name:  "refund",
		Usage: "refund a completed sale",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "transaction", Required: true},
			&cli.StringFlag{Name: "amount", Required: true},
			&cli.StringFlag{Name: "reason", Required: true},
			&cli.StringFlag{Name: "type", Usage: "full or partial", Value: string(domain.RefundFull)},
			&cli.StringSliceFlag{Name: "item", Usage: "productID:quantity to put back on the shelf, repeatable"},
		},
		Action: func(c *cli.Context) error {
			amount, err := decimal.NewFromString(c.String("amount"))
			if err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			items, err := parseRefundItems(c.StringSlice("item"))
			if err != nil {
				return err
			}
			resp, err := apiClient(c).RefundTransaction(c.Context, c.String("transaction"), dto.RefundRequest{
				Amount:     amount,
				Reason:     c.String("reason"),
				RefundType: domain.RefundType(c.String("type")),
				Items:      items,
			})
			if err != nil {
				return err
			}
			return printJSON(c, resp)
		},
	}
}

func adjustCommand() *cli.Command {
	return &cli.Command{
		Name:  "adjust",
		Usage: "correct a product's stock",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "product", Required: true},
			&cli.StringFlag{Name: "type", Usage: "increase, decrease or set", Required: true},
			&cli.IntFlag{Name: "quantity", Required: true},
			&cli.StringFlag{Name: "reason", Usage: "restocking, damage, expired, return or correction", Required: true},
			&cli.StringFlag{Name: "notes"},
			&cli.StringFlag{Name: "unit-cost"},
		},
		Action: func(c *cli.Context) error {
			quantity := c.Int("quantity")
			unitCost, err := optionalDecimal("unit-cost", c.String("unit-cost"))
			if err != nil {
				return err
			}
			resp, err := apiClient(c).AdjustStock(c.Context, dto.AdjustInventoryRequest{
				ProductID: c.String("product"),
				Type:      domain.AdjustmentType(c.String("type")),
				Quantity:  &quantity,
				Reason:    c.String("reason"),
				Notes:     c.String("notes"),
				UnitCost:  unitCost,
			})
			if err != nil {
				return err
			}
			return printJSON(c, resp)
		},
	}
}

func orderStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "order-status",
		Usage: "move an order along its workflow or set its payment status",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "order", Required: true},
			&cli.StringFlag{Name: "status", Usage: "confirmed, on_the_way, delivered or cancelled"},
			&cli.StringFlag{Name: "payment-status", Usage: "pending, paid, partially_paid or failed"},
		},
		Action: func(c *cli.Context) error {
			var req dto.UpdateOrderRequest
			if s := c.String("status"); s != "" {
				status := domain.OrderStatus(s)
				req.Status = &status
			}
			if s := c.String("payment-status"); s != "" {
				paymentStatus := domain.PaymentStatus(s)
				req.PaymentStatus = &paymentStatus
			}
			if req.Status == nil && req.PaymentStatus == nil {
				return fmt.Errorf("one of --status or --payment-status is required")
			}
			order, err := apiClient(c).UpdateOrder(c.Context, c.String("order"), req)
			if err != nil {
				return err
			}
			return printJSON(c, order)
		},
	}
}

func dashboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "print the back-office summary",
		Action: func(c *cli.Context) error {
			summary, err := apiClient(c).DashboardSummary(c.Context)
			if err != nil {
				return err
			}
			return printJSON(c, summary)
		},
	}
}
