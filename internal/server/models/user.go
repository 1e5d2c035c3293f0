package models

import "github.com/dmitrijs2005/taskledger/internal/identity"

// User is a directory member. A stored user never has RoleNone.
type User struct {
	Address  identity.Address `cbor:"address"`
	Role     Role             `cbor:"role"`
	Username string           `cbor:"username"`
}

// Balance is value credited to an address by task completion.
type Balance struct {
	Address identity.Address `cbor:"address"`
	Amount  Amount           `cbor:"amount"`
}
