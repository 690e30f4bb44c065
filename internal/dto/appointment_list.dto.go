package dto

import "time"

type AppointmentListDTO struct {
	ID               string    `json:"id"`
	StartAt          time.Time `json:"start_at"`
	EndAt            time.Time `json:"end_at"`
	Status           string    `json:"status"`
	ConfirmationCode string    `json:"confirmation_code"`
	CustomerName     string    `json:"customer_name"`
	JobTypeName      string    `json:"job_type_name"`
}
