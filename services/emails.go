package services

import (
	"fmt"

	"github.com/meinhoongagan/amigos-app/models"
)

const emailTimeLayout = "2006-01-02 15:04"

func newBookingEmail(amigo, client *models.User, b *models.Booking) string {
	return fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>%s would like to book you.</p>
		<ul>
			<li><strong>Start:</strong> %s</li>
			<li><strong>End:</strong> %s</li>
			<li><strong>Location:</strong> %s</li>
			<li><strong>Total:</strong> %d</li>
		</ul>
		<p>You can confirm the booking once the payment is completed.</p>
	`, amigo.Name, client.Name,
		b.StartTime.Format(emailTimeLayout),
		b.EndTime.Format(emailTimeLayout),
		b.Location, b.TotalAmount)
}

func statusEmail(to *models.User, b *models.Booking) string {
	return fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Booking #%d on %s at %s is now <strong>%s</strong>.</p>
	`, to.Name, b.ID, b.StartTime.Format(emailTimeLayout), b.Location, b.Status)
}
