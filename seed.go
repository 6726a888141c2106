package main

import (
	"log"

	"example.com/newsfeed/internal/store"
)

// seedDemoData creates a few users and follow edges so the API can be
// exercised right after startup. Enabled with SEED_DEMO=true.
func seedDemoData(st *store.Store) {
	alice := st.CreateUser("alice", "https://example.com/alice.jpg")
	bob := st.CreateUser("bob", "https://example.com/bob.jpg")
	charlie := st.CreateUser("charlie", "https://example.com/charlie.jpg")

	st.AddFollow(alice, bob)     // bob follows alice
	st.AddFollow(alice, charlie) // charlie follows alice
	st.AddFollow(bob, charlie)   // charlie follows bob

	log.Printf("Seeded demo users: alice=%s bob=%s charlie=%s", alice, bob, charlie)
}
