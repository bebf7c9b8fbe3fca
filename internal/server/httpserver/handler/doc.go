// Package handler provides the HTTP handlers of the ZetCipher API.
//
// Every JSON response uses the Response envelope. Tokens that fail to
// verify are not HTTP errors: decode endpoints answer 200 with valid=false
// and the reason. Domain errors map to the status class carried by their
// code (ZC-ARG-4001 -> 400, ZC-IDEN-4040 -> 404, ZC-CONF-5002 -> 500).
package handler
