// Command libhal builds the C ABI of the HAL as a shared library:
//
//	go build -buildmode=c-shared -o libhal.so ./cmd/libhal
//
// String results are allocated with malloc and must be released with
// hal_free. Build with -tags hal_no_uniqueid to compile the unique-ID
// facility out; hal_unique_id_* then always report failure.
package main

/*
#include <stdbool.h>
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/darkit/hal/humidity"
	"github.com/darkit/hal/uniqueid"
)

//export hal_unique_id_available
func hal_unique_id_available() C.bool {
	return C.bool(uniqueid.Available())
}

// hal_unique_id_get returns NULL when the id is unavailable.
//
//export hal_unique_id_get
func hal_unique_id_get() *C.char {
	id, ok := uniqueid.Get()
	if !ok {
		return nil
	}
	return C.CString(id)
}

//export hal_free
func hal_free(p unsafe.Pointer) {
	C.free(p)
}

//export hal_humidity_available
func hal_humidity_available() C.bool {
	return C.bool(humidity.Available())
}

//export hal_humidity_enable
func hal_humidity_enable() {
	humidity.Enable()
}

//export hal_humidity_disable
func hal_humidity_disable() {
	humidity.Disable()
}

//export hal_humidity_enabled
func hal_humidity_enabled() C.bool {
	return C.bool(humidity.Enabled())
}

// hal_humidity_get returns the relative humidity in percent, -1.0f on failure.
//
//export hal_humidity_get
func hal_humidity_get() C.float {
	return C.float(humidity.Get())
}

func main() {}
