package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/application/service"
	"github.com/garyjia/invoice-studio/internal/config"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/infrastructure/external/gateway"
	"github.com/garyjia/invoice-studio/pkg/utils"
)

// Isolated check of the SMS, email and M-Pesa endpoints.
// Sends one request synchronously and prints the outcome, without starting
// the server or touching the invoice counter.

func main() {
	configPath := flag.String("config", "", "optional path to the YAML configuration file")
	kind := flag.String("kind", entity.OutboundSMS, "sms, email or mpesa")
	to := flag.String("to", "", "phone number or email address")
	amount := flag.Int64("amount", 1, "amount for an M-Pesa push, in whole units")
	flag.Parse()

	fmt.Println("=== Gateway Notification Test ===")
	fmt.Println()

	if *to == "" {
		fmt.Fprintln(os.Stderr, "usage: test-notification -kind sms|email|mpesa -to <recipient>")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client := gateway.NewClient(gateway.Config{
		SMSURL:   cfg.Gateway.SMSURL,
		EmailURL: cfg.Gateway.EmailURL,
		MpesaURL: cfg.Gateway.MpesaURL,
		APIKey:   cfg.Gateway.APIKey,
		Timeout:  cfg.Gateway.Timeout,
	}, &http.Client{Timeout: cfg.Gateway.Timeout}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Gateway.Timeout+5*time.Second)
	defer cancel()

	reference := fmt.Sprintf("TEST-%d", time.Now().Unix())

	switch *kind {
	case entity.OutboundSMS:
		if err := utils.ValidatePhone(*to); err != nil {
			log.Fatalf("Invalid phone: %v", err)
		}
		fmt.Printf("[Step 1] Sending SMS to %s via %s\n", *to, cfg.Gateway.SMSURL)
		err = client.SendSMS(ctx, entity.SMSMessage{
			To:      service.NormalizePhone(*to),
			Message: fmt.Sprintf("Test message %s from invoice studio", reference),
		})

	case entity.OutboundEmail:
		if err := utils.ValidateEmail(*to); err != nil {
			log.Fatalf("Invalid email: %v", err)
		}
		fmt.Printf("[Step 1] Sending email to %s via %s\n", *to, cfg.Gateway.EmailURL)
		err = client.SendEmail(ctx, entity.EmailMessage{
			To:      *to,
			Subject: "Test " + reference,
			HTML:    "<p>Gateway connectivity check.</p>",
		})

	case entity.OutboundMpesa:
		if err := utils.ValidatePhone(*to); err != nil {
			log.Fatalf("Invalid phone: %v", err)
		}
		fmt.Printf("[Step 1] Initiating M-Pesa push of %d to %s via %s\n", *amount, *to, cfg.Gateway.MpesaURL)
		err = client.InitiatePush(ctx, entity.PaymentRequest{
			PhoneNumber:      service.NormalizePhone(*to),
			Amount:           *amount,
			AccountReference: reference,
			TransactionDesc:  "Gateway connectivity check",
		})

	default:
		log.Fatalf("Unknown kind %q", *kind)
	}

	if err != nil {
		fmt.Printf("✗ Delivery failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Delivered")
}
