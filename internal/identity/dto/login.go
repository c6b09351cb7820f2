package dto

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`

	// Caller identity, captured from the transport. Consumed read-only;
	// only hashed/derived forms are ever persisted.
	IPAddress      string `json:"-"`
	UserAgent      string `json:"-"`
	AcceptLanguage string `json:"-"`
	AcceptEncoding string `json:"-"`
}
