package adoptions

import "time"

// Status de una solicitud de adopción. No hay estados terminales extra
// (withdrawn/completed); el staff puede re-transicionar entre los tres.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// AdoptionRequest es la solicitud de un adoptante para un animal puntual.
type AdoptionRequest struct {
	ID    int64
	DogID int64

	Name    string
	Email   string
	Phone   string // normalizado: solo dígitos
	Address string

	Experience string
	Reason     string

	Status Status
	// RejectionReason solo se llena al rechazar con motivo; un cambio de
	// estado posterior no lo borra.
	RejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Dog es la vista desnormalizada del animal, presente solo cuando el
	// repo hizo el join. Images siempre viene normalizado a lista de URLs.
	Dog *DogView
}

// DogView es lo que el panel necesita ver junto a la solicitud.
type DogView struct {
	Name      string
	Images    []string
	Available bool
	Status    string
}
