package contacts

// Stats are the counters shown in the list header and by `addressbook stats`.
// The JSON shape matches the backend's /api/stats payload.
type Stats struct {
	TotalContacts    int `json:"total_contacts"`
	FavoriteContacts int `json:"favorite_contacts"`
	PhoneMethods     int `json:"phone_methods"`
	EmailMethods     int `json:"email_methods"`
	SocialMethods    int `json:"social_methods"`
	AddressMethods   int `json:"address_methods"`
}

// Summarize derives Stats from a contact list.
func Summarize(list []Contact) Stats {
	var s Stats
	s.TotalContacts = len(list)
	for _, c := range list {
		if c.IsFavorite {
			s.FavoriteContacts++
		}
		for _, m := range c.Methods {
			switch m.Type {
			case MethodPhone:
				s.PhoneMethods++
			case MethodEmail:
				s.EmailMethods++
			case MethodSocial:
				s.SocialMethods++
			case MethodAddress:
				s.AddressMethods++
			}
		}
	}
	return s
}

// MethodCount returns the counter for a method type.
func (s Stats) MethodCount(t MethodType) int {
	switch t {
	case MethodPhone:
		return s.PhoneMethods
	case MethodEmail:
		return s.EmailMethods
	case MethodSocial:
		return s.SocialMethods
	case MethodAddress:
		return s.AddressMethods
	default:
		return 0
	}
}
