package x64

import log "github.com/xuperchain/log15"

// Silent unless the root handler is changed by the program.
var logger = log.New("module", "x64")
