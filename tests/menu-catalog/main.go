// Fake menu catalog for local runs: serves a fixed menu on /menu and flips
// item availability every few seconds so cache expiry is observable.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     int    `json:"price"`
	Available bool   `json:"available"`
	Veg       bool   `json:"is_veg"`
}

var (
	mu    sync.RWMutex
	items = []Item{
		{ID: "item-1", Name: "Masala Dosa", Category: "South Indian", Price: 70, Available: true, Veg: true},
		{ID: "item-2", Name: "Veg Thali", Category: "Meals", Price: 100, Available: true, Veg: true},
		{ID: "item-3", Name: "Chicken Biryani", Category: "Meals", Price: 150, Available: true, Veg: false},
		{ID: "item-4", Name: "Samosa", Category: "Snacks", Price: 20, Available: true, Veg: true},
		{ID: "item-5", Name: "Filter Coffee", Category: "Beverages", Price: 30, Available: true, Veg: true},
		{ID: "item-6", Name: "Egg Puff", Category: "Snacks", Price: 35, Available: true, Veg: false},
		{ID: "item-7", Name: "Lime Juice", Category: "Beverages", Price: 25, Available: true, Veg: true},
		{ID: "item-8", Name: "Paneer Roll", Category: "Snacks", Price: 80, Available: true, Veg: true},
	}
)

func main() {
	addr := flag.String("addr", ":5001", "listen address")
	flag.Parse()

	go flipAvailability()

	http.HandleFunc("/menu", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(items)
	})

	log.Println("menu catalog listening on", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}

func flipAvailability() {
	for range time.Tick(5 * time.Second) {
		mu.Lock()
		i := rand.Intn(len(items))
		items[i].Available = !items[i].Available
		log.Println(items[i].Name, "available:", items[i].Available)
		mu.Unlock()
	}
}
