package apperr

import "errors"

// Notification is the single modal a screen shows for a failed action.
type Notification struct {
	Title   string
	Message string
}

// Operation names used to pick the failure message.
const (
	OpListQueue    = "list_queue"
	OpCreateOrder  = "create_order"
	OpUpdateStatus = "update_status"
	OpListMine     = "list_mine"
	OpProfile      = "profile"
	OpRegister     = "register"
	OpLookup       = "lookup"
)

var storeMessages = map[string]string{
	OpListQueue:    "Gagal memuat data antrian",
	OpCreateOrder:  "Gagal membuat order.",
	OpUpdateStatus: "Gagal mengubah status",
	OpListMine:     "Gagal memuat order.",
	OpProfile:      "Gagal memuat profil pengguna.",
	OpRegister:     "Terjadi kesalahan saat registrasi.",
	OpLookup:       "Gagal memproses login.",
}

var validationMessages = map[string]string{
	OpCreateOrder: "Motor & lokasi wajib diisi!",
	OpProfile:     "Nama dan nomor telepon wajib diisi.",
	OpRegister:    "Semua kolom wajib diisi!",
}

// Notice converts err into exactly one user-facing notification for op.
// Messages are static; backend reasons never reach the user.
func Notice(op string, err error) Notification {
	var (
		ve *ValidationError
		ae *AuthRequiredError
	)
	switch {
	case errors.As(err, &ae):
		return Notification{Title: "Akses ditolak", Message: "Silakan login terlebih dahulu."}
	case errors.As(err, &ve):
		if msg, ok := validationMessages[op]; ok {
			return Notification{Title: "Validasi", Message: msg}
		}
		return Notification{Title: "Validasi", Message: "Data tidak valid."}
	case errors.Is(err, ErrNotFound) && op == OpUpdateStatus:
		return Notification{Title: "Error", Message: "Order tidak ditemukan."}
	case errors.Is(err, ErrNotFound) && op == OpLookup:
		return Notification{Title: "Error", Message: "Nomor telepon tidak ditemukan!"}
	}
	if msg, ok := storeMessages[op]; ok {
		return Notification{Title: "Error", Message: msg}
	}
	return Notification{Title: "Error", Message: "Terjadi kesalahan."}
}
