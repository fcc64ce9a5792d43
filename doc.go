// Python-to-image (`p2i`) is a tool for packaging a standalone Python script
// as a Docker image. `p2i` inspects the script's import statements, resolves
// which of them are installable PyPI packages, generates a Dockerfile that
// installs them, and builds an image that is ready to use with `docker run`.
package pythontoimage
