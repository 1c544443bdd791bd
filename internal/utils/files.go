package utils

import (
	"os"
	"path/filepath"
	"strings"
)

func GetFilename(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func OpenFile(makeDir bool, outputPath string, fileSuffix, modelName string) (*os.File, error) {
	if makeDir && fileSuffix != "" && fileSuffix != "." {
		if err := os.MkdirAll(filepath.Join(outputPath, fileSuffix), 0750); err != nil {
			return nil, err
		}
		return os.Create(filepath.Join(outputPath, fileSuffix, modelName+".csv"))
	} else if fileSuffix == "" {
		return os.Create(filepath.Join(outputPath, modelName+".csv"))
	} else {
		return os.Create(filepath.Join(outputPath, modelName+"_"+fileSuffix+".csv"))
	}
}
