package model

type RoomType string

const (
	RoomStandard RoomType = "STANDARD"
	RoomVIP      RoomType = "VIP"
	RoomIMAX     RoomType = "IMAX"
	Room4DX      RoomType = "4DX"
)

type Room struct {
	RoomID     int      `json:"roomID"`
	RoomName   string   `json:"roomName"`
	RoomType   RoomType `json:"roomType"`
	TotalSeats int      `json:"totalSeats"`
}

// LayoutPayload is the atomic replace body for POST /rooms/{id}/layout.
type LayoutPayload struct {
	RoomID       int      `json:"roomID"`
	RoomName     string   `json:"roomName"`
	TotalRows    int      `json:"totalRows"`
	TotalColumns int      `json:"totalColumns"`
	RowLabels    string   `json:"rowLabels"`
	RoomType     RoomType `json:"roomType"`
	Seats        []Seat   `json:"seats"`
}
