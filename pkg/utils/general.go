package utils

// PanicIfNeeded panics on a non-nil error so the recovery middleware can map
// it to an HTTP response.
func PanicIfNeeded(err interface{}, message ...string) {
	if err != nil {
		if len(message) > 0 {
			panic(message[0])
		}
		panic(err)
	}
}
