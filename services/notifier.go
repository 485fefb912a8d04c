package services

import (
	"fmt"
	"log"
	"os"

	"bikeshop-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier sends the "your bike is ready" SMS when a job is completed.
type Notifier struct {
	client *twilio.RestClient
	from   string
}

// NewNotifier builds a notifier from TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN
// and TWILIO_FROM_NUMBER. Returns nil when the credentials are absent so
// callers can skip notifications entirely.
func NewNotifier() *Notifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_FROM_NUMBER")
	if accountSid == "" || authToken == "" || from == "" {
		return nil
	}

	return &Notifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: from,
	}
}

// JobCompleted texts the customer that their bicycle is ready for pickup.
// Send failures are logged and swallowed: the completion itself already
// happened and must not be rolled back over an SMS.
func (n *Notifier) JobCompleted(customer models.Customer, bicycle models.Bicycle, record models.RepairRecord) {
	body := fmt.Sprintf("Hi %s, your %s is ready for pickup! Total: ₪%s. See you soon!",
		customer.Name, bicycle.Brand, record.TotalAmount.StringFixed(2))

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(customer.PhoneNumber)
	params.SetFrom(n.from)
	params.SetBody(body)

	go func() {
		if _, err := n.client.Api.CreateMessage(params); err != nil {
			log.Printf("Failed to send completion SMS to %s: %v", customer.PhoneNumber, err)
		}
	}()
}
