package fs

import (
	"errors"
	"os"
	"path"
	"sync"

	"github.com/enriquebris/goconcurrentqueue"
)

// FileWriter serializes writes to a file coming from multiple goroutines.
// Writes go through a fixed-capacity queue, so when producers outpace the
// disk EnqueueWrite fails fast instead of blocking them. Callers that use
// this as a sampling sink may ignore that error.
type FileWriter struct {
	filePath string
	sync.Mutex
	handle *os.File
	q      *goconcurrentqueue.FixedFIFO
	chDone chan struct{}
}

// Init setup the FileWriter
func (fw *FileWriter) Init(filePath string, queueLength int) (err error) {
	dir := path.Dir(filePath)
	if err := EnsureDir(dir); err != nil {
		return err
	}
	fw.Lock()
	if fw.q == nil {
		fw.q = goconcurrentqueue.NewFixedFIFO(queueLength)
		fw.chDone = make(chan struct{}, 1)
		go fw.writeListener(fw.chDone)
	}
	fw.Unlock()
	err = fw.setFile(filePath)
	return
}

func (fw *FileWriter) setFile(filePath string) (err error) {
	fw.Lock()
	defer fw.Unlock()
	if fw.handle != nil {
		fw.handle.Close()
	}
	fw.filePath = filePath
	fw.handle, err = os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	return
}

// EnqueueWrite queues one line for writing to the target file
func (fw *FileWriter) EnqueueWrite(data string) (err error) {
	if fw.q == nil || fw.filePath == "" || fw.handle == nil {
		err = errors.New("file writer is uninitialized")
	} else {
		err = fw.q.Enqueue(data)
	}
	return
}

func (fw *FileWriter) writeListener(chDone chan struct{}) {
	for {
		res, err := fw.q.DequeueOrWaitForNextElement()
		select {
		case <-chDone:
			return
		default:
		}
		if err == nil {
			fw.Lock()
			fw.handle.WriteString(res.(string) + "\n")
			fw.Unlock()
		}
	}
}

// Stop ends the file writer, flushing is not attempted so queued but
// unwritten lines may be lost
func (fw *FileWriter) Stop() (err error) {
	fw.Lock()
	select {
	case fw.chDone <- struct{}{}:
	default:
	}
	fw.q.Enqueue("stop") // wakes the listener so it can see chDone
	fw.q.Lock()          // makes further enqueues fail
	if fw.handle != nil {
		fw.handle.Close()
	}
	fw.handle = nil
	fw.Unlock()
	return
}
