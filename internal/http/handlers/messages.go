package handlers

// Indonesian renderings of user-facing messages. Anything missing is sent
// as-is.
var messagesID = map[string]string{
	"No image file uploaded":                 "Tidak ada file gambar yang diunggah",
	"Uploaded image is empty":                "File gambar yang diunggah kosong",
	"Malformed multipart body":               "Body multipart tidak valid",
	"Authentication required":                "Autentikasi diperlukan",
	"Generation not found":                   "Hasil generate tidak ditemukan",
	"Internal server error":                  "Terjadi kesalahan pada server",
	"durable upload failed":                  "Gagal mengunggah gambar ke penyimpanan",
	"failed to save generation":              "Gagal menyimpan hasil generate",
	"failed to receive upload":               "Gagal menerima file unggahan",
	"Gemini API key is invalid or missing":   "API key Gemini tidak valid atau belum diatur",
	"Gemini API quota exceeded":              "Kuota API Gemini habis",
	"Network error connecting to Gemini API": "Gangguan jaringan saat menghubungi API Gemini",
	"Owner id is required":                   "Owner id wajib diisi",
	"Failed to load generations":             "Gagal memuat daftar hasil generate",
	"Failed to load dashboard":               "Gagal memuat dashboard",
	"Failed to delete generations":           "Gagal menghapus hasil generate",
}

func localize(locale, msg string) string {
	if locale != "id" {
		return msg
	}
	if t, ok := messagesID[msg]; ok {
		return t
	}
	return msg
}
