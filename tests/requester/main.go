// Checkout load tool: mints itself a bearer credential, pulls the menu and
// hammers the storefront with cash checkouts and listing reads.
package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"
)

const baseURL = "http://localhost:8080"

var slots = []string{
	"12:00 - 12:15", "12:15 - 12:30", "12:30 - 12:45", "12:45 - 13:00",
}

type menuItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Available bool   `json:"available"`
}

type orderLine struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

type placeOrderRequest struct {
	Lines       []orderLine `json:"lines"`
	PickupSlot  string      `json:"pickup_slot"`
	TotalAmount int         `json:"total_amount"`
}

func main() {
	secret := os.Getenv("AUTH_SECRET")
	if secret == "" {
		secret = "dev-secret"
	}

	menu := fetchMenu()
	if len(menu) == 0 {
		fmt.Println("empty menu, nothing to order")
		return
	}

	for {
		var wg sync.WaitGroup
		for range rand.Intn(5) + 1 {
			subject := fmt.Sprintf("student-%d", rand.Intn(50))
			token := mintToken(secret, subject)
			wg.Go(func() { placeOrder(token, menu) })
			wg.Go(func() { listOrders(token) })
		}
		wg.Wait()
		time.Sleep(50 * time.Millisecond)
	}
}

func mintToken(secret, subject string) string {
	payload := fmt.Sprintf("%s:%d", subject, time.Now().Add(time.Hour).Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return base64.StdEncoding.EncodeToString([]byte(payload + ":" + sig))
}

func fetchMenu() []menuItem {
	resp, err := http.Get(baseURL + "/menu")
	if err != nil {
		fmt.Println("menu request failed:", err)
		return nil
	}
	defer resp.Body.Close()

	var items []menuItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		fmt.Println("bad menu payload:", err)
		return nil
	}

	available := items[:0]
	for _, it := range items {
		if it.Available {
			available = append(available, it)
		}
	}
	return available
}

func placeOrder(token string, menu []menuItem) {
	var lines []orderLine
	subtotal := 0
	for range rand.Intn(3) + 1 {
		it := menu[rand.Intn(len(menu))]
		qty := rand.Intn(3) + 1
		lines = append(lines, orderLine{ItemID: it.ID, Name: it.Name, Price: it.Price, Quantity: qty})
		subtotal += it.Price * qty
	}
	total := subtotal + int(float64(subtotal)*0.05+0.5)

	body, _ := json.Marshal(placeOrderRequest{
		Lines:       lines,
		PickupSlot:  slots[rand.Intn(len(slots))],
		TotalAmount: total,
	})

	req, _ := http.NewRequest(http.MethodPost, baseURL+"/orders", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("checkout failed:", err)
		return
	}
	fmt.Println("POST /orders ->", resp.Status)
	resp.Body.Close()
}

func listOrders(token string) {
	req, _ := http.NewRequest(http.MethodGet, baseURL+"/orders/my-orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("listing failed:", err)
		return
	}
	fmt.Println("GET /orders/my-orders ->", resp.Status)
	resp.Body.Close()
}
