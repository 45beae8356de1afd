package model

import "time"

type User struct {
	ID        int64     `json:"user_id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	Timezone  string    `json:"timezone"`
	FirstSeen time.Time `json:"first_seen"`
}
