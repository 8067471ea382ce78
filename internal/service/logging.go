package service

import logging "github.com/ipfs/go-log/v2"

var logger = logging.Logger("cyberblog/service")
