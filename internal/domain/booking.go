package domain

import "time"

// PaymentMethod is one of the locally supported payment channels.
type PaymentMethod string

const (
	PaymentInstaPay     PaymentMethod = "instapay"
	PaymentVodafoneCash PaymentMethod = "vodafone_cash"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentInstaPay || m == PaymentVodafoneCash
}

// BookingStatus tracks the lifecycle of a booking record.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
)

// Booking is a confirmed trip booking as persisted under degy_bookings.
type Booking struct {
	// Reference is the unique booking reference handed to the traveller.
	Reference string `json:"reference"`

	// DestinationID links the booking to a catalog destination.
	DestinationID int `json:"destinationId"`

	// Traveller details captured by the booking form.
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`

	// TravelDate is the requested departure date.
	TravelDate time.Time `json:"travelDate"`

	// PaymentMethod selected at booking time. No charge is made: payment
	// is settled out of band via the named channel.
	PaymentMethod PaymentMethod `json:"paymentMethod"`

	Status BookingStatus `json:"status"`

	// CreatedAt is when the booking was accepted.
	CreatedAt time.Time `json:"createdAt"`
}
