package billing

import (
	"log"

	"github.com/TimKoenig/FolioDesk/app/repository"
	"github.com/TimKoenig/FolioDesk/internal/pkg/mail"
)

// Notifier receives post-reconciliation events. Implementations must not
// block the caller.
type Notifier interface {
	PurchaseCompleted(userID uint, tier string)
}

// MailNotifier sends a receipt email when a purchase completes.
type MailNotifier struct {
	users repository.UserRepository
}

func NewMailNotifier(users repository.UserRepository) *MailNotifier {
	return &MailNotifier{users: users}
}

func (n *MailNotifier) PurchaseCompleted(userID uint, tier string) {
	go func() {
		user, err := n.users.GetByID(userID)
		if err != nil {
			log.Printf("billing: receipt lookup failed for user %d: %v", userID, err)
			return
		}
		if err := mail.SendPurchaseReceipt(user.Email, user.Name, tier); err != nil {
			log.Printf("billing: receipt delivery failed for user %d: %v", userID, err)
		}
	}()
}
