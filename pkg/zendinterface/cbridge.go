package zendinterface

/*
#include "zephp.h"

extern void ZephpInvoke(zend_execute_data *execute_data, zval *return_value);

// The registration records need the trampoline as a C function pointer.
static zephp_handler zephp_invoke_handler(void) {
	return ZephpInvoke;
}

static void zephp_call_error_cb(zephp_error_cb cb, int severity, const char *message) {
	cb(severity, message);
}
*/
import "C"

func invokeHandler() C.zephp_handler {
	return C.zephp_invoke_handler()
}

func callErrorCB(cb C.zephp_error_cb, severity C.int, message *C.char) {
	C.zephp_call_error_cb(cb, severity, message)
}
