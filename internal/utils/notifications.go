package utils

import (
	"fmt"
	"log"

	"papyrus_back_end/internal/models"
)

// SendOrderStatusEmail envoie un email de notification de changement de statut
func SendOrderStatusEmail(order models.Order, userEmail string, newStatus string) error {
	subject := getStatusEmailSubject(newStatus)
	html := generateStatusEmailHTML(order, newStatus)

	err := SendConfirmationEmail(userEmail, subject, html, nil)
	if err != nil {
		log.Printf("❌ Erreur envoi email statut: %v", err)
		return err
	}

	log.Printf("📧 Email de statut envoyé: %s → %s", newStatus, userEmail)
	return nil
}

func getStatusEmailSubject(status string) string {
	switch status {
	case models.OrderStatusProcessing:
		return "✅ Paiement confirmé - Papyrus"
	case models.OrderStatusShipping:
		return "📦 Votre commande a été expédiée - Papyrus"
	case models.OrderStatusCompleted:
		return "🎉 Votre commande a été livrée - Papyrus"
	case models.OrderStatusCanceled:
		return "❌ Commande annulée - Papyrus"
	case models.OrderStatusRefunded:
		return "💰 Remboursement effectué - Papyrus"
	default:
		return "📋 Mise à jour de votre commande - Papyrus"
	}
}

func getStatusMessage(status string) string {
	switch status {
	case models.OrderStatusProcessing:
		return "Votre paiement a été confirmé avec succès. Nous préparons votre colis."
	case models.OrderStatusShipping:
		return "Votre commande est en route. Vous recevrez bientôt vos livres."
	case models.OrderStatusCompleted:
		return "Votre commande a été livrée. Bonne lecture !"
	case models.OrderStatusCanceled:
		return "Votre commande a été annulée. Si vous n'êtes pas à l'origine de cette annulation, contactez notre support."
	case models.OrderStatusRefunded:
		return "Votre remboursement a été effectué. Le montant apparaîtra sur votre compte sous quelques jours ouvrés."
	default:
		return "Le statut de votre commande a été mis à jour."
	}
}

func getStatusColor(status string) string {
	switch status {
	case models.OrderStatusProcessing, models.OrderStatusCompleted:
		return "#22c55e"
	case models.OrderStatusShipping:
		return "#3b82f6"
	case models.OrderStatusCanceled:
		return "#ef4444"
	case models.OrderStatusRefunded:
		return "#f59e0b"
	default:
		return "#667eea"
	}
}

func generateStatusEmailHTML(order models.Order, status string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
    <meta charset="UTF-8">
    <title>Mise à jour de commande</title>
</head>
<body style="margin: 0; padding: 20px; font-family: Arial, sans-serif; background-color: #f5f5f5;">
    <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; padding: 30px;">
        <h1 style="margin: 0 0 10px 0; color: #333;">📚 Papyrus</h1>
        <div style="display: inline-block; padding: 10px 20px; background-color: %s; color: #ffffff; border-radius: 25px; font-weight: 600; text-transform: uppercase;">
            %s
        </div>
        <p style="margin: 20px 0; color: #333; font-size: 16px;">%s</p>
        <table style="width: 100%%; background-color: #f8f9fa; border-radius: 8px; padding: 10px;">
            <tr>
                <td style="padding: 8px; color: #666;">Numéro de commande:</td>
                <td style="padding: 8px; text-align: right;">#%s</td>
            </tr>
            <tr>
                <td style="padding: 8px; color: #666;">Montant total:</td>
                <td style="padding: 8px; text-align: right; font-weight: 600;">%s</td>
            </tr>
        </table>
        <p style="margin: 20px 0 0 0; color: #999; font-size: 12px;">
            Cet email a été envoyé automatiquement, merci de ne pas y répondre.
        </p>
    </div>
</body>
</html>`, getStatusColor(status), status, getStatusMessage(status), order.ID.String()[:8], Euros(order.TotalCents))
}
