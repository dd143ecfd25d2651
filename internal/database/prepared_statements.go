package database

import (
	"log"

	"github.com/gocql/gocql"
)

// CQL du chemin chaud (remboursements + login).
//
// Une *gocql.Query est mutée par Bind : elle ne doit jamais être partagée
// entre goroutines. Chaque getter construit donc une instance fraîche à
// partir du texte de la requête ; gocql met en cache la préparation par
// texte, le coût par appel se limite à une allocation.
const (
	cqlGetBookingByID = `SELECT client_id, provider_id, total_price, payment_method, payment_intent_id, status, created_at, updated_at
		FROM bookings WHERE booking_id = ?`

	cqlGetProviderByID = "SELECT subscription_tier, stripe_account_id FROM providers WHERE provider_id = ?"

	cqlInsertLedgerEntry = `INSERT INTO refund_ledger (booking_id, refund_id, payment_intent_id, amount, scope, commission_handling, platform_amount_kept, provider_amount_reversed, reason, status, admin_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	cqlGetUserByEmail = "SELECT user_id FROM users_by_email WHERE email = ?"

	cqlGetUserByID = "SELECT email, password, name, role FROM users WHERE user_id = ?"
)

// InitPreparedStatements vérifie au démarrage que les sessions du chemin
// chaud sont joignables, pour échouer tôt plutôt qu'au premier remboursement
func InitPreparedStatements() {
	if _, err := GetBookingsSession(); err != nil {
		log.Printf("⚠️ Impossible d'initialiser les prepared statements (bookings): %v", err)
		return
	}
	if _, err := GetBillingSession(); err != nil {
		log.Printf("⚠️ Impossible d'initialiser les prepared statements (billing): %v", err)
		return
	}
	if _, err := GetUsersSession(); err != nil {
		log.Printf("⚠️ Impossible d'initialiser les prepared statements (users): %v", err)
		return
	}
	log.Println("✅ Prepared statements initialisés")
}

// GetPreparedGetBookingByID retourne une requête fraîche pour récupérer
// une réservation par ID, ou nil si la session est indisponible
func GetPreparedGetBookingByID() *gocql.Query {
	session, err := GetBookingsSession()
	if err != nil {
		return nil
	}
	return session.Query(cqlGetBookingByID)
}

// GetPreparedGetProviderByID retourne une requête fraîche pour récupérer
// le coiffeur (tier + compte Stripe)
func GetPreparedGetProviderByID() *gocql.Query {
	session, err := GetBookingsSession()
	if err != nil {
		return nil
	}
	return session.Query(cqlGetProviderByID)
}

// GetPreparedInsertLedgerEntry retourne une requête fraîche pour insérer
// une ligne du grand livre des remboursements
func GetPreparedInsertLedgerEntry() *gocql.Query {
	session, err := GetBillingSession()
	if err != nil {
		return nil
	}
	return session.Query(cqlInsertLedgerEntry)
}

// GetPreparedGetUserByEmail retourne une requête fraîche pour résoudre
// un email vers le user_id
func GetPreparedGetUserByEmail() *gocql.Query {
	session, err := GetUsersSession()
	if err != nil {
		return nil
	}
	return session.Query(cqlGetUserByEmail)
}

// GetPreparedGetUserByID retourne une requête fraîche pour récupérer un
// utilisateur par ID
func GetPreparedGetUserByID() *gocql.Query {
	session, err := GetUsersSession()
	if err != nil {
		return nil
	}
	return session.Query(cqlGetUserByID)
}
