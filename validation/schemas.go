package validation

// Schema names accepted by Validator.Validate.
const (
	Register      = "register"
	Login         = "login"
	Refresh       = "refresh"
	Profile       = "profile"
	Availability  = "availability"
	Booking       = "booking"
	BookingStatus = "booking_status"
	Review        = "review"
	PaymentIntent = "payment_intent"
	Favorite      = "favorite"
)

const emailPattern = `^[^@\\s]+@[^@\\s]+\\.[^@\\s]+$`

var schemas = map[string]string{
	Register: `{
		"type": "object",
		"required": ["email", "username", "password", "name"],
		"properties": {
			"email": {"type": "string", "pattern": "` + emailPattern + `"},
			"username": {"type": "string", "minLength": 3, "maxLength": 50},
			"password": {"type": "string", "minLength": 6},
			"confirmPassword": {"type": "string"},
			"name": {"type": "string", "minLength": 1},
			"bio": {"type": ["string", "null"]},
			"about": {"type": ["string", "null"]},
			"location": {"type": ["string", "null"]},
			"avatar": {"type": ["string", "null"]},
			"isAmigo": {"type": "boolean"},
			"interests": {"type": "array", "items": {"type": "string"}},
			"hourlyRate": {"type": ["integer", "null"], "minimum": 0}
		}
	}`,
	Login: `{
		"type": "object",
		"required": ["email", "password"],
		"properties": {
			"email": {"type": "string", "pattern": "` + emailPattern + `"},
			"password": {"type": "string", "minLength": 6}
		}
	}`,
	Refresh: `{
		"type": "object",
		"required": ["refreshToken"],
		"properties": {
			"refreshToken": {"type": "string", "minLength": 1}
		}
	}`,
	Profile: `{
		"type": "object",
		"properties": {
			"username": {"type": "string", "minLength": 3, "maxLength": 50},
			"name": {"type": "string", "minLength": 1},
			"bio": {"type": "string"},
			"about": {"type": "string"},
			"location": {"type": "string"},
			"avatar": {"type": "string"},
			"interests": {"type": "array", "items": {"type": "string"}},
			"hourlyRate": {"type": "integer", "minimum": 0}
		}
	}`,
	Availability: `{
		"type": "object",
		"required": ["date", "startTime", "endTime"],
		"properties": {
			"userId": {"type": "integer", "minimum": 1},
			"date": {"type": "string", "format": "date-time"},
			"startTime": {"type": "string", "format": "date-time"},
			"endTime": {"type": "string", "format": "date-time"}
		}
	}`,
	Booking: `{
		"type": "object",
		"required": ["amigoId", "date", "startTime", "endTime", "location"],
		"properties": {
			"clientId": {"type": "integer", "minimum": 1},
			"amigoId": {"type": "integer", "minimum": 1},
			"date": {"type": "string", "format": "date-time"},
			"startTime": {"type": "string", "format": "date-time"},
			"endTime": {"type": "string", "format": "date-time"},
			"location": {"type": "string", "minLength": 1},
			"totalAmount": {"type": "integer", "minimum": 0}
		}
	}`,
	BookingStatus: `{
		"type": "object",
		"required": ["status"],
		"properties": {
			"status": {"type": "string", "enum": ["confirmed", "completed", "cancelled"]}
		}
	}`,
	Review: `{
		"type": "object",
		"required": ["bookingId", "revieweeId", "rating"],
		"properties": {
			"bookingId": {"type": "integer", "minimum": 1},
			"reviewerId": {"type": "integer", "minimum": 1},
			"revieweeId": {"type": "integer", "minimum": 1},
			"rating": {"type": "integer", "minimum": 1, "maximum": 5},
			"comment": {"type": "string"}
		}
	}`,
	PaymentIntent: `{
		"type": "object",
		"required": ["bookingId"],
		"properties": {
			"bookingId": {"type": "integer", "minimum": 1}
		}
	}`,
	Favorite: `{
		"type": "object",
		"required": ["amigoId"],
		"properties": {
			"amigoId": {"type": "integer", "minimum": 1}
		}
	}`,
}
